package models

import "time"

// SavedTranscript is a transcript persisted to the library.
type SavedTranscript struct {
	VideoID     string    `json:"video_id"`
	Language    string    `json:"language"`
	IsGenerated bool      `json:"is_generated"`
	Transcript  string    `json:"transcript"`
	WordCount   int       `json:"word_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchResult is one similarity hit against the stored transcripts.
type SearchResult struct {
	VideoID    string  `json:"video_id"`
	Language   string  `json:"language"`
	Similarity float64 `json:"similarity"`
}

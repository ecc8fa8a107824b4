package transcript

// CaptionTrack is one selectable caption candidate for a video.
type CaptionTrack struct {
	// VideoID is the video this track belongs to.
	VideoID string
	// ID is a source-specific handle used to fetch the track (a timedtext
	// URL for the InnerTube source, a subtitle language key for yt-dlp).
	ID string
	// LanguageCode is the BCP-47-ish code, e.g. "en", "en-US", "fr".
	LanguageCode string
	// Language is the human-readable language name.
	Language string
	// IsGenerated marks machine-transcribed tracks (speech recognition)
	// as opposed to human-authored ones.
	IsGenerated bool
	// IsTranslatable reports whether the source can translate this track.
	IsTranslatable bool
}

// CaptionEntry is one timed unit of caption text within a track.
// Entries come back from a source ordered by Start ascending.
type CaptionEntry struct {
	Text     string
	Start    float64 // seconds
	Duration float64 // seconds
}

// Segment is one cleaned, timed unit of a resolved transcript.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the resolver output. Exactly one of Text or Segments is
// populated, depending on whether timestamps were requested; both are
// projections of the same underlying entries.
type Transcript struct {
	VideoID string
	// Language is the effective language code after any translation.
	Language string
	// IsGenerated reflects the provenance of the chosen source track,
	// unchanged by translation.
	IsGenerated bool
	Text        string
	Segments    []Segment
}

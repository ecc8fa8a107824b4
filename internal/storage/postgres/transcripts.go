package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"ytsummary.app/backend/internal/storage/models"
)

// TranscriptRepository stores resolved transcripts together with an
// embedding vector for similarity search.
type TranscriptRepository struct {
	db *sql.DB
}

func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// EnsureSchema creates the transcripts table and the pgvector extension if
// they do not exist yet.
func (r *TranscriptRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS transcripts (
			video_id     text PRIMARY KEY,
			language     text NOT NULL,
			is_generated boolean NOT NULL,
			transcript   text NOT NULL,
			word_count   integer NOT NULL,
			embedding    vector(1536),
			created_at   timestamptz NOT NULL DEFAULT now(),
			updated_at   timestamptz NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure transcripts schema: %w", err)
	}
	return nil
}

// Save upserts a transcript and its embedding, keyed by video ID.
func (r *TranscriptRepository) Save(ctx context.Context, t *models.SavedTranscript, embedding []float32) error {
	const upsert = `
		INSERT INTO transcripts (video_id, language, is_generated, transcript, word_count, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (video_id) DO UPDATE SET
			language     = EXCLUDED.language,
			is_generated = EXCLUDED.is_generated,
			transcript   = EXCLUDED.transcript,
			word_count   = EXCLUDED.word_count,
			embedding    = EXCLUDED.embedding,
			updated_at   = now()
	`
	_, err := r.db.ExecContext(ctx, upsert,
		t.VideoID, t.Language, t.IsGenerated, t.Transcript, t.WordCount,
		pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("save transcript %s: %w", t.VideoID, err)
	}
	return nil
}

// Get fetches a stored transcript by video ID. Returns sql.ErrNoRows when
// the video has not been saved.
func (r *TranscriptRepository) Get(ctx context.Context, videoID string) (*models.SavedTranscript, error) {
	const query = `
		SELECT video_id, language, is_generated, transcript, word_count, created_at, updated_at
		FROM transcripts
		WHERE video_id = $1
	`
	var t models.SavedTranscript
	err := r.db.QueryRowContext(ctx, query, videoID).Scan(
		&t.VideoID, &t.Language, &t.IsGenerated, &t.Transcript, &t.WordCount,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Search returns stored transcripts ordered by cosine similarity to the
// query embedding.
func (r *TranscriptRepository) Search(ctx context.Context, embedding []float32, limit int) ([]models.SearchResult, error) {
	const query = `
		SELECT video_id, language,
		       1 - (embedding <=> $1) AS similarity
		FROM transcripts
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("search transcripts: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(&res.VideoID, &res.Language, &res.Similarity); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

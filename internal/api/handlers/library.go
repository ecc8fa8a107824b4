package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"ytsummary.app/backend/internal/apperr"
	"ytsummary.app/backend/internal/embeddings"
	"ytsummary.app/backend/internal/storage/models"
	"ytsummary.app/backend/internal/storage/postgres"
	"ytsummary.app/backend/internal/transcript"
	"ytsummary.app/backend/internal/validate"
)

const defaultSearchLimit = 5

// LibraryHandler persists resolved transcripts and serves similarity search
// over them. Only mounted when a database is configured.
type LibraryHandler struct {
	resolver *transcript.Resolver
	repo     *postgres.TranscriptRepository
	embedder *embeddings.Client
	log      *slog.Logger
}

func NewLibraryHandler(resolver *transcript.Resolver, repo *postgres.TranscriptRepository, embedder *embeddings.Client, log *slog.Logger) *LibraryHandler {
	return &LibraryHandler{resolver: resolver, repo: repo, embedder: embedder, log: log}
}

// Save serves POST /library/videos: resolves the transcript and stores it
// together with its embedding.
func (h *LibraryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		writeError(w, h.log, apperr.New(apperr.InvalidID, `Missing "url" in request body`))
		return
	}
	videoID, ok := validate.ExtractVideoID(body.URL)
	if !ok {
		writeError(w, h.log, apperr.New(apperr.InvalidID, "Invalid YouTube URL or video ID"))
		return
	}

	result, err := h.resolver.Resolve(r.Context(), videoID, false)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	embedding, err := h.embedder.Embed(r.Context(), result.Text)
	if err != nil {
		writeError(w, h.log, apperr.Wrap(apperr.Unavailable, err, "embedding service unavailable"))
		return
	}

	saved := &models.SavedTranscript{
		VideoID:     videoID,
		Language:    result.Language,
		IsGenerated: result.IsGenerated,
		Transcript:  result.Text,
		WordCount:   transcript.WordCount(result.Text),
	}
	if err := h.repo.Save(r.Context(), saved, embedding); err != nil {
		h.log.Error("save transcript failed", "video_id", videoID, "error", err)
		writeError(w, h.log, apperr.Wrap(apperr.Unavailable, err, "failed to store transcript"))
		return
	}

	h.log.Info("transcript saved", "video_id", videoID, "word_count", saved.WordCount)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"video_id":   videoID,
		"language":   saved.Language,
		"word_count": saved.WordCount,
	})
}

// Get serves GET /library/videos/{videoID}.
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoID"]
	if !validate.IsValidVideoID(videoID) {
		writeError(w, h.log, apperr.New(apperr.InvalidID, "Invalid video ID format"))
		return
	}

	saved, err := h.repo.Get(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.log, &apperr.Error{
				Kind:    apperr.NotFound,
				Message: "Video not found in library",
				VideoID: videoID,
			})
			return
		}
		writeError(w, h.log, apperr.Wrap(apperr.Unavailable, err, "library lookup failed"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"video":   saved,
	})
}

// Search serves POST /library/search with a {"query": ..., "limit": ...}
// body, ranking stored transcripts by cosine similarity.
func (h *LibraryHandler) Search(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query == "" {
		writeError(w, h.log, apperr.New(apperr.Validation, `Missing "query" in request body`))
		return
	}
	if body.Limit <= 0 {
		body.Limit = defaultSearchLimit
	}

	embedding, err := h.embedder.Embed(r.Context(), body.Query)
	if err != nil {
		writeError(w, h.log, apperr.Wrap(apperr.Unavailable, err, "embedding service unavailable"))
		return
	}

	results, err := h.repo.Search(r.Context(), embedding, body.Limit)
	if err != nil {
		writeError(w, h.log, apperr.Wrap(apperr.Unavailable, err, "library search failed"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
		"count":   len(results),
	})
}

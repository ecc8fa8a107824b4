package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"ytsummary.app/backend/internal/apperr"
	"ytsummary.app/backend/internal/transcript"
	"ytsummary.app/backend/internal/validate"
)

type TranscriptHandler struct {
	resolver *transcript.Resolver
	log      *slog.Logger
}

func NewTranscriptHandler(resolver *transcript.Resolver, log *slog.Logger) *TranscriptHandler {
	return &TranscriptHandler{resolver: resolver, log: log}
}

// Get serves GET /transcript/{videoID}.
func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoID"]
	if !validate.IsValidVideoID(videoID) {
		writeError(w, h.log, apperr.New(apperr.InvalidID, "Invalid video ID format"))
		return
	}
	h.resolve(w, r, videoID)
}

// FromURL serves POST /transcript with a {"url": ...} body.
func (h *TranscriptHandler) FromURL(w http.ResponseWriter, r *http.Request) {
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
	h.resolve(w, r, videoID)
}

func (h *TranscriptHandler) resolve(w http.ResponseWriter, r *http.Request, videoID string) {
	includeTimestamps := strings.EqualFold(r.URL.Query().Get("timestamps"), "true")

	result, err := h.resolver.Resolve(r.Context(), videoID, includeTimestamps)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if includeTimestamps {
		h.log.Info("transcript fetched", "video_id", videoID, "segments", len(result.Segments))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"video_id":     videoID,
			"segments":     result.Segments,
			"language":     result.Language,
			"is_generated": result.IsGenerated,
		})
		return
	}

	h.log.Info("transcript fetched", "video_id", videoID, "chars", len(result.Text))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"video_id":     videoID,
		"transcript":   result.Text,
		"language":     result.Language,
		"is_generated": result.IsGenerated,
		"word_count":   transcript.WordCount(result.Text),
	})
}

// Debug serves GET /debug/{videoID}: lists the caption tracks available for
// a video without fetching any of them.
func (h *TranscriptHandler) Debug(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoID"]
	if !validate.IsValidVideoID(videoID) {
		writeError(w, h.log, apperr.New(apperr.InvalidID, "Invalid video ID"))
		return
	}

	tracks, err := h.resolver.ListTracks(r.Context(), videoID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	available := make([]map[string]any, 0, len(tracks))
	for _, t := range tracks {
		available = append(available, map[string]any{
			"language":        t.Language,
			"language_code":   t.LanguageCode,
			"is_generated":    t.IsGenerated,
			"is_translatable": t.IsTranslatable,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"video_id":              videoID,
		"available_transcripts": available,
		"count":                 len(available),
	})
}

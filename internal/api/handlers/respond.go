package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ytsummary.app/backend/internal/apperr"
)

// statusForKind is the fixed mapping from the error taxonomy onto HTTP
// status codes. Upstream errors carry their own status.
var statusForKind = map[apperr.Kind]int{
	apperr.InvalidID:        http.StatusBadRequest,
	apperr.Validation:       http.StatusBadRequest,
	apperr.CaptionsDisabled: http.StatusForbidden,
	apperr.NotFound:         http.StatusNotFound,
	apperr.RateLimited:      http.StatusTooManyRequests,
	apperr.Timeout:          http.StatusGatewayTimeout,
	apperr.Unavailable:      http.StatusServiceUnavailable,
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError translates a typed error into the JSON envelope and status
// code the clients expect. Untyped errors become opaque 500s.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Error("unexpected error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "An unexpected error occurred",
		})
		return
	}

	status, ok := statusForKind[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if appErr.Kind == apperr.Upstream && appErr.Status != 0 {
		status = appErr.Status
	}

	log.Warn("request failed",
		"kind", appErr.Kind.String(),
		"status", status,
		"error", appErr.Message)

	body := map[string]any{
		"success": false,
		"error":   appErr.Message,
	}
	if appErr.Hint != "" {
		body["hint"] = appErr.Hint
	}
	if appErr.VideoID != "" {
		body["video_id"] = appErr.VideoID
	}
	writeJSON(w, status, body)
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"ytsummary.app/backend/internal/ai"
	"ytsummary.app/backend/internal/apperr"
)

type CompletionHandler struct {
	client *ai.Client
	log    *slog.Logger
}

func NewCompletionHandler(client *ai.Client, log *slog.Logger) *CompletionHandler {
	return &CompletionHandler{client: client, log: log}
}

// Complete serves POST /ai/complete.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	// Pointer fields tell an omitted control apart from an explicit zero:
	// omitted gets the default, an explicit 0 is a validation error.
	// max_tokens decodes as a float so a fractional value reaches the range
	// check instead of failing the decode.
	var body struct {
		Prompt      *string  `json:"prompt"`
		MaxTokens   *float64 `json:"max_tokens"`
		Temperature *float64 `json:"temperature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Prompt == nil {
		writeError(w, h.log, apperr.New(apperr.Validation, `Missing "prompt" in request body`))
		return
	}

	req := ai.CompletionRequest{
		Prompt:      *body.Prompt,
		MaxTokens:   ai.DefaultMaxTokens,
		Temperature: ai.DefaultTemperature,
	}
	if body.MaxTokens != nil {
		if *body.MaxTokens != math.Trunc(*body.MaxTokens) {
			writeError(w, h.log, apperr.New(apperr.Validation, "max_tokens must be between 1 and %d", ai.MaxTokensLimit))
			return
		}
		req.MaxTokens = int(*body.MaxTokens)
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}

	h.log.Info("ai completion request", "prompt_len", len(req.Prompt), "max_tokens", req.MaxTokens)

	text, err := h.client.Complete(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"text":    text,
	})
}

// Package ai proxies text-generation requests to the Gemini API, keeping
// the API key server-side.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ytsummary.app/backend/internal/apperr"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7

	MaxTokensLimit   = 8192
	TemperatureLimit = 2
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// CompletionRequest carries one generation call's prompt and controls.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Gemini generateContent wire types.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete validates req, forwards it to the generation API, and returns the
// generated text. Validation failures never reach the network.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	if c.cfg.APIKey == "" {
		return "", apperr.New(apperr.Unavailable, "AI service not configured")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{{Text: req.Prompt}},
			Role:  "user",
		}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Info("calling generation API",
		"model", c.cfg.Model,
		"max_tokens", req.MaxTokens,
		"temperature", req.Temperature)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		e := apperr.FromTransport(err, "AI service unavailable")
		if e.Kind == apperr.Timeout {
			e.Message = "AI service timeout"
		}
		return "", e
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.FromTransport(err, "AI service unavailable")
	}

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(resp.StatusCode, body)
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", apperr.Wrap(apperr.Unavailable, err, "decode generation response")
	}

	// Absence of content is always an error, never a valid empty result.
	if len(gen.Candidates) == 0 {
		return "", &apperr.Error{Kind: apperr.Upstream, Message: "No response generated", Status: http.StatusInternalServerError}
	}
	parts := gen.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", &apperr.Error{Kind: apperr.Upstream, Message: "Empty response from AI", Status: http.StatusInternalServerError}
	}

	text := parts[0].Text
	c.log.Info("generation response received", "chars", len(text))
	return text, nil
}

func validate(req CompletionRequest) error {
	if req.Prompt == "" {
		return apperr.New(apperr.Validation, "Invalid prompt")
	}
	if req.MaxTokens < 1 || req.MaxTokens > MaxTokensLimit {
		return apperr.New(apperr.Validation, "max_tokens must be between 1 and %d", MaxTokensLimit)
	}
	if req.Temperature < 0 || req.Temperature > TemperatureLimit {
		return apperr.New(apperr.Validation, "temperature must be between 0 and %d", TemperatureLimit)
	}
	return nil
}

// upstreamError extracts the upstream's own message, falling back to
// "Unknown error" when the body carries none.
func upstreamError(status int, body []byte) error {
	msg := "Unknown error"
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}
	return &apperr.Error{
		Kind:    apperr.Upstream,
		Message: "AI API error: " + msg,
		Status:  status,
	}
}

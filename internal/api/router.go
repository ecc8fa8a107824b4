// Package api wires the HTTP surface: routing, auth, CORS, and rate
// limiting around the transcript resolver and AI proxy.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"ytsummary.app/backend/internal/api/handlers"
	"ytsummary.app/backend/internal/api/middleware"
	"ytsummary.app/backend/internal/config"
)

// Deps carries the handler dependencies. Library may be nil when no
// database is configured; its routes are simply not mounted.
type Deps struct {
	Transcript *handlers.TranscriptHandler
	AI         *handlers.CompletionHandler
	Library    *handlers.LibraryHandler
}

func NewRouter(cfg *config.Config, deps Deps, log *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.NewRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)

	// Public routes.
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet, http.MethodOptions)

	// Protected routes.
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.APIKey, log))

	protected.HandleFunc("/transcript/{videoID}", deps.Transcript.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/transcript", deps.Transcript.FromURL).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/debug/{videoID}", deps.Transcript.Debug).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/ai/complete", deps.AI.Complete).Methods(http.MethodPost, http.MethodOptions)

	if deps.Library != nil {
		protected.HandleFunc("/library/videos", deps.Library.Save).Methods(http.MethodPost, http.MethodOptions)
		protected.HandleFunc("/library/videos/{videoID}", deps.Library.Get).Methods(http.MethodGet, http.MethodOptions)
		protected.HandleFunc("/library/search", deps.Library.Search).Methods(http.MethodPost, http.MethodOptions)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

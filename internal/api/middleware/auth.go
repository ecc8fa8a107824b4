package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Auth checks the X-API-Key header against the configured key. When no key
// is configured the middleware allows everything and logs a warning once,
// matching the unprotected-by-default deployment mode.
func Auth(apiKey string, log *slog.Logger) func(http.Handler) http.Handler {
	if apiKey == "" && log != nil {
		log.Warn("APP_API_KEY not configured - endpoints are unprotected")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
				if log != nil {
					log.Warn("unauthorized request", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Unauthorized - invalid or missing API key",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package config builds the service configuration from the environment.
// The Config value is constructed once at startup and passed by reference;
// nothing reads the environment after that.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	SourceInnerTube = "innertube"
	SourceYtDlp     = "ytdlp"
)

type Config struct {
	Port   string
	APIKey string // X-API-Key value; empty leaves endpoints unprotected

	// Transcript resolution.
	TranscriptSource string // SourceInnerTube or SourceYtDlp
	SourceTimeout    time.Duration
	YtDlpPath        string

	// AI proxy.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Library (optional; disabled when DatabaseURL is empty).
	DatabaseURL  string
	OpenAIAPIKey string

	// HTTP surface.
	AllowedOrigin  string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		Port:   getenv("PORT", "8080"),
		APIKey: os.Getenv("APP_API_KEY"),

		TranscriptSource: getenv("TRANSCRIPT_SOURCE", SourceInnerTube),
		SourceTimeout:    getenvDuration("TRANSCRIPT_TIMEOUT", 30*time.Second),
		YtDlpPath:        getenv("YTDLP_PATH", "yt-dlp"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		GeminiTimeout: getenvDuration("GEMINI_TIMEOUT", 60*time.Second),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		AllowedOrigin:  getenv("ALLOWED_ORIGIN", "*"),
		RateLimitRPS:   getenvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", 10),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"ytsummary.app/backend/internal/ai"
	"ytsummary.app/backend/internal/api"
	"ytsummary.app/backend/internal/api/handlers"
	"ytsummary.app/backend/internal/config"
	"ytsummary.app/backend/internal/embeddings"
	"ytsummary.app/backend/internal/storage/db"
	"ytsummary.app/backend/internal/storage/postgres"
	"ytsummary.app/backend/internal/transcript"
	"ytsummary.app/backend/internal/transcript/innertube"
	"ytsummary.app/backend/internal/transcript/ytdlp"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	cfg := config.Load()

	var source transcript.CaptionSource
	switch cfg.TranscriptSource {
	case config.SourceYtDlp:
		source = ytdlp.New(cfg.YtDlpPath)
	case config.SourceInnerTube:
		source = innertube.New(cfg.SourceTimeout)
	default:
		log.Error("unknown transcript source", "source", cfg.TranscriptSource)
		os.Exit(1)
	}
	log.Info("transcript source selected", "source", cfg.TranscriptSource)

	resolver := transcript.NewResolver(source, log)

	aiClient := ai.New(ai.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	}, log)

	deps := api.Deps{
		Transcript: handlers.NewTranscriptHandler(resolver, log),
		AI:         handlers.NewCompletionHandler(aiClient, log),
	}

	// The library is optional: without a database the service still resolves
	// transcripts and proxies completions.
	if cfg.DatabaseURL != "" {
		database, err := db.NewConnection(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Error("database connection failed", "url", db.MaskURL(cfg.DatabaseURL), "error", err)
			os.Exit(1)
		}
		defer database.Close()

		repo := postgres.NewTranscriptRepository(database)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}

		embedder := embeddings.New(cfg.OpenAIAPIKey)
		deps.Library = handlers.NewLibraryHandler(resolver, repo, embedder, log)
		log.Info("library enabled", "url", db.MaskURL(cfg.DatabaseURL))
	} else {
		log.Info("library disabled, no DATABASE_URL set")
	}

	router := api.NewRouter(cfg, deps, log)

	addr := ":" + cfg.Port
	log.Info("starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("HTTP server error", "error", err)
		os.Exit(1)
	}
}

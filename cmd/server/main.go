package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mixmateai/mixmate/config"
	"github.com/mixmateai/mixmate/internal/audio"
	"github.com/mixmateai/mixmate/internal/mashup"
	"github.com/mixmateai/mixmate/internal/planner"
	"github.com/mixmateai/mixmate/internal/recommend"
	"github.com/mixmateai/mixmate/internal/server"
	"github.com/mixmateai/mixmate/internal/storage"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")
	port := flag.String("port", "", "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	requester := planner.NewRequester(planner.NewOllamaClient(cfg.Ollama))
	if err := requester.CheckLiveness(ctx); err != nil {
		if !cfg.Ollama.SkipStartupCheck {
			slog.Error("Model liveness check failed", "base_url", cfg.Ollama.BaseURL, "error", err)
			os.Exit(1)
		}
		slog.Warn("Model liveness check failed, continuing", "base_url", cfg.Ollama.BaseURL, "error", err)
	}

	// A missing dataset only disables /recommend
	var recommender server.Recommender
	index, err := recommend.Load(cfg.Recommender.DatasetPath)
	if err != nil {
		slog.Warn("Recommender dataset not loaded", "path", cfg.Recommender.DatasetPath, "error", err)
	} else {
		slog.Info("Recommender dataset loaded", "path", cfg.Recommender.DatasetPath, "tracks", index.Len())
		recommender = index
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	storage.StartCleanupWorker(ctx, store.Dir(), cfg.Storage.FileTTL, storage.CleanupInterval)

	executor := mashup.NewExecutor(cfg.Assets.Dir, audio.NewFFMPEGEngine(), mashup.WithBitrate(cfg.Mashup.Bitrate))

	srv := server.New(cfg, requester, executor, recommender, store)

	slog.Info("Starting MixMate API server", "port", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

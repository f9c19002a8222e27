// Package main implements the entry point for the deck generation API
// server, which turns a topic into a presentation deck using pluggable
// LLM providers, best-effort image enrichment, and a guest credit ledger.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/phrazzld/deck-api/internal/config"
	"github.com/phrazzld/deck-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Server)

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"default_provider", cfg.LLM.DefaultProvider,
		"cache_enabled", cfg.Redis.URL != "")

	ctx := context.Background()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

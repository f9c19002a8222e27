package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/deck-api/internal/config"
	"github.com/phrazzld/deck-api/internal/enrichment"
	"github.com/phrazzld/deck-api/internal/events"
	"github.com/phrazzld/deck-api/internal/generation"
	"github.com/phrazzld/deck-api/internal/platform/artifactfs"
	"github.com/phrazzld/deck-api/internal/platform/gemini"
	"github.com/phrazzld/deck-api/internal/platform/groq"
	"github.com/phrazzld/deck-api/internal/platform/imagenorm"
	"github.com/phrazzld/deck-api/internal/platform/ollama"
	"github.com/phrazzld/deck-api/internal/platform/openaillm"
	"github.com/phrazzld/deck-api/internal/platform/pexels"
	"github.com/phrazzld/deck-api/internal/platform/postgres"
	"github.com/phrazzld/deck-api/internal/platform/rediscache"
	"github.com/phrazzld/deck-api/internal/service"
	"github.com/phrazzld/deck-api/internal/service/auth"
	"github.com/phrazzld/deck-api/internal/service/credit"
	"github.com/phrazzld/deck-api/internal/service/template"
	"github.com/phrazzld/deck-api/internal/store"
)

// application holds all initialized dependencies for the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *sql.DB

	ledger      *credit.Ledger
	selector    *generation.Selector
	deckService *service.DeckService
	jwtService  auth.JWTService
}

// newApplication wires the full dependency graph: durable store and
// migrations, optional cache tier, provider variants, enrichment,
// normalization, and the orchestrator.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log := slog.Default()

	db, err := postgres.Open(ctx, cfg.Database.URL, log)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := postgres.Migrate(db); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	counterStore := postgres.NewCounterStore(db, log)

	// The cache tier is optional; a missing or unreachable cache degrades
	// to durable-only operation rather than failing startup.
	var counterCache store.CounterCache
	if cfg.Redis.URL != "" {
		client, err := rediscache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("cache tier unavailable, running durable-only", "error", err)
		} else {
			counterCache = rediscache.NewCounterCache(client, log)
		}
	}

	cacheTTL := time.Duration(cfg.Redis.CacheTTLHours) * time.Hour
	ledger := credit.NewLedger(counterStore, counterCache, cacheTTL, log)

	providers := []generation.Provider{
		groq.New(cfg.LLM, log),
		openaillm.New(cfg.LLM, log),
		gemini.New(ctx, cfg.LLM, log),
		ollama.New(cfg.LLM, log),
	}

	selector, err := generation.NewSelector(providers, generation.ProviderType(cfg.LLM.DefaultProvider), log)
	if err != nil {
		return nil, fmt.Errorf("building provider selector: %w", err)
	}

	searcher := pexels.New(cfg.Image.PexelsAPIKey, log)
	enricher := enrichment.NewEnricher(
		searcher, time.Duration(cfg.Image.ItemTimeoutSeconds)*time.Second, log)

	normalizer := imagenorm.New(cfg.Normalizer, log)
	renderer := template.NewService(log)

	artifacts, err := artifactfs.NewFileStore(cfg.Artifact.BasePath, log)
	if err != nil {
		return nil, fmt.Errorf("opening artifact store: %w", err)
	}

	emitter := events.NewInMemoryEmitter(log)
	emitter.RegisterHandler(events.NewLogHandler(log))

	deckService := service.NewDeckService(
		ledger, selector, enricher, renderer, normalizer, artifacts, emitter, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		if !errors.Is(err, auth.ErrAuthDisabled) {
			return nil, fmt.Errorf("configuring auth: %w", err)
		}
		log.Info("bearer authentication disabled, all requesters are guests")
		jwtService = nil
	}

	return &application{
		config:      cfg,
		logger:      log,
		db:          db,
		ledger:      ledger,
		selector:    selector,
		deckService: deckService,
		jwtService:  jwtService,
	}, nil
}

// cleanup releases resources during shutdown.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}

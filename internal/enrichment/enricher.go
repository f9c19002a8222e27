// Package enrichment augments generated slides with best-effort
// illustrative images from an external search provider.
package enrichment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/deck-api/internal/domain"
)

// DefaultItemTimeout bounds a single slide's image lookup when no
// timeout is configured.
const DefaultItemTimeout = 8 * time.Second

// ImageSearcher finds one illustrative image for a query. A nil result
// means "no image"; implementations must not fail the caller, including
// under upstream rate limiting.
type ImageSearcher interface {
	SearchOne(ctx context.Context, query string) *domain.ImageAttachment
}

// styleModifiers translate a request's style hint into extra search
// terms that steer the imagery.
var styleModifiers = map[string]string{
	"professional": "professional business",
	"creative":     "creative colorful abstract",
	"minimal":      "minimalist clean",
}

// Enricher runs the image lookup fan-out over a deck's slides.
type Enricher struct {
	searcher    ImageSearcher
	itemTimeout time.Duration
	logger      *slog.Logger
}

// NewEnricher creates an enricher. itemTimeout bounds each slide's
// lookup; zero selects the default. If logger is nil, a default logger
// will be used. Panics if searcher is nil, as this indicates an
// unrecoverable configuration error.
func NewEnricher(searcher ImageSearcher, itemTimeout time.Duration, logger *slog.Logger) *Enricher {
	if searcher == nil {
		panic("image searcher cannot be nil")
	}
	if itemTimeout <= 0 {
		itemTimeout = DefaultItemTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Enricher{
		searcher:    searcher,
		itemTimeout: itemTimeout,
		logger:      logger.With(slog.String("component", "enrichment")),
	}
}

// EnrichSlides looks up one image per slide concurrently and attaches
// the results in place. Concurrency is bounded by the slide count. A
// lookup failure or timeout leaves that slide without an attachment and
// never affects its neighbors; slide order is untouched because each
// worker writes only its own index.
func (e *Enricher) EnrichSlides(ctx context.Context, slides []domain.Slide, styleHint string) {
	var wg sync.WaitGroup
	wg.Add(len(slides))

	for i := range slides {
		go func(i int) {
			defer wg.Done()

			itemCtx, cancel := context.WithTimeout(ctx, e.itemTimeout)
			defer cancel()

			query := buildQuery(slides[i], styleHint)
			if query == "" {
				return
			}

			slides[i].Attachment = e.searcher.SearchOne(itemCtx, query)
		}(i)
	}

	wg.Wait()
}

// buildQuery derives the image search query for one slide from its
// title, steered by the style hint.
func buildQuery(slide domain.Slide, styleHint string) string {
	if slide.Title == "" {
		return ""
	}

	query := slide.Title
	if mod, ok := styleModifiers[styleHint]; ok {
		query += " " + mod
	}
	return query
}

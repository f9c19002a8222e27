// Package gemini implements the generation.Provider interface using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/deck-api/internal/config"
	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/generation"
)

// errContentBlocked marks responses rejected by the upstream safety
// filters. It is permanent and never retried.
var errContentBlocked = errors.New("gemini: content blocked by safety filters")

// Provider generates decks using Google Gemini models.
type Provider struct {
	client *genai.Client
	cfg    config.LLMConfig
	logger *slog.Logger
}

// New creates a Gemini provider. A missing API key or failed client
// construction does not fail construction; the provider simply reports
// itself unavailable. If logger is nil, a default logger will be used.
func New(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("provider", "gemini"))

	p := &Provider{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.GeminiAPIKey == "" {
		return p
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Warn("failed to create gemini client, provider unavailable", "error", err)
		return p
	}

	p.client = client
	return p
}

// Ensure Provider implements generation.Provider interface
var _ generation.Provider = (*Provider)(nil)

// Type implements generation.Provider.Type
func (p *Provider) Type() generation.ProviderType {
	return generation.ProviderGemini
}

// Name implements generation.Provider.Name
func (p *Provider) Name() string {
	return "Google Gemini (" + p.cfg.GeminiModel + ")"
}

// IsAvailable implements generation.Provider.IsAvailable
func (p *Provider) IsAvailable() bool {
	return p.client != nil
}

// Generate implements generation.Provider.Generate. Every failure path
// resolves to the deterministic fallback deck; this method never fails.
func (p *Provider) Generate(ctx context.Context, req domain.GenerationRequest) domain.Deck {
	if !p.IsAvailable() {
		p.logger.Warn("provider not configured, using fallback deck")
		return generation.FallbackDeck(req)
	}

	raw, err := p.callWithRetry(ctx, buildPrompt(req))
	if err != nil {
		p.logger.Error("upstream generation failed, using fallback deck", "error", err)
		return generation.FallbackDeck(req)
	}

	deck, err := generation.RepairDeck(raw)
	if err != nil {
		p.logger.Error("could not repair upstream output, using fallback deck", "error", err)
		return generation.FallbackDeck(req)
	}

	p.logger.Info("deck generated", "title", deck.Title, "slides", len(deck.Slides))
	return deck
}

// callWithRetry calls the Gemini API with exponential backoff and jitter
// between attempts. Transient errors (network, upstream 5xx) are retried
// up to MaxRetries times; permanent errors such as safety blocks are
// returned immediately.
func (p *Provider) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := p.cfg.MaxRetries
	baseDelaySeconds := p.cfg.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		attemptNum := attempt + 1
		p.logger.InfoContext(ctx, "making gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, transient, err := p.callOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}

		p.logger.ErrorContext(ctx, "gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("gemini: exceeded maximum retry attempts (%d): %w", maxRetries, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("gemini: cancelled during retry delay: %w", ctx.Err())
		}
	}

	return "", fmt.Errorf("gemini: exceeded maximum retry attempts (%d)", maxRetries)
}

// callOnce performs a single GenerateContent call. The second return
// value reports whether the error is worth retrying.
func (p *Provider) callOnce(ctx context.Context, prompt string) (string, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(callCtx, p.cfg.GeminiModel, genai.Text(prompt), nil)
	switch {
	case err != nil:
		return "", true, fmt.Errorf("gemini API call: %w", err)
	case resp == nil:
		return "", false, fmt.Errorf("%w: nil response", generation.ErrMalformedOutput)
	case len(resp.Candidates) == 0:
		return "", false, fmt.Errorf("%w: no content generated", generation.ErrMalformedOutput)
	case resp.Candidates[0].Content == nil:
		return "", false, fmt.Errorf("%w: empty content in response", generation.ErrMalformedOutput)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", false, errContentBlocked
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	return text.String(), false, nil
}

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-slide presentation in language %q on the topic: %s\n\n",
		req.SlideCount, req.Language, req.Topic)

	if req.SupplementaryText != "" {
		fmt.Fprintf(&b, "Source material to draw on:\n%s\n\n", req.SupplementaryText)
	}

	if req.StyleHint != "" {
		fmt.Fprintf(&b, "Tone: %s.\n\n", req.StyleHint)
	}

	b.WriteString(`Structure the deck as introduction, body, conclusion.
Each slide body is 50-150 words of HTML using only <h1>-<h3>, <p>, <strong>, <em>, <ul>, <li>, <br>.

Respond with ONLY valid JSON, no markdown fences, of this exact shape:
{"title": "...", "slides": [{"title": "...", "content": "...", "type": "title|content|conclusion"}]}`)

	return b.String()
}

// Package groq implements the generation.Provider interface against
// Groq's OpenAI-compatible chat completion API.
package groq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/phrazzld/deck-api/internal/config"
	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/generation"
)

// baseURL is Groq's OpenAI-compatible endpoint.
const baseURL = "https://api.groq.com/openai/v1"

const systemPrompt = "You are an expert presentation writer. " +
	"Respond with valid JSON only, no commentary and no markdown fences."

// Provider generates decks using Groq-hosted Llama models.
type Provider struct {
	client *openai.Client
	cfg    config.LLMConfig
	logger *slog.Logger
}

// New creates a Groq provider. A missing or malformed API key does not
// fail construction; the provider simply reports itself unavailable.
// If logger is nil, a default logger will be used.
func New(cfg config.LLMConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		cfg:    cfg,
		logger: logger.With(slog.String("provider", "groq")),
	}

	if keyLooksValid(cfg.GroqAPIKey) {
		clientCfg := openai.DefaultConfig(cfg.GroqAPIKey)
		clientCfg.BaseURL = baseURL
		p.client = openai.NewClientWithConfig(clientCfg)
	}

	return p
}

// Ensure Provider implements generation.Provider interface
var _ generation.Provider = (*Provider)(nil)

// Type implements generation.Provider.Type
func (p *Provider) Type() generation.ProviderType {
	return generation.ProviderGroq
}

// Name implements generation.Provider.Name
func (p *Provider) Name() string {
	return "Groq (" + p.cfg.GroqModel + ")"
}

// IsAvailable implements generation.Provider.IsAvailable. Groq keys start
// with "gsk_"; anything else is treated as unconfigured.
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

	raw, err := p.complete(ctx, req)
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

// complete performs the chat completion with retry for transient errors.
func (p *Provider) complete(ctx context.Context, req domain.GenerationRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(p.cfg.RetryDelaySeconds) * time.Second << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RequestTimeoutSeconds)*time.Second)
		resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: p.cfg.GroqModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
			},
			Temperature: 0.7,
			MaxTokens:   2000,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("groq chat completion: %w", err)
			p.logger.Warn("generation attempt failed",
				"attempt", attempt+1, "max_attempts", p.cfg.MaxRetries+1, "error", err)
			continue
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: no choices returned", generation.ErrMalformedOutput)
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

// buildPrompt shapes the user prompt for Groq's Llama models, which
// respond best to short, numbered requirements.
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

	b.WriteString(`Requirements:
1. Return ONLY valid JSON, no markdown fences.
2. Structure: introduction, body, conclusion.
3. Each slide body is 50-150 words of HTML using only <h1>-<h3>, <p>, <strong>, <em>, <ul>, <li>, <br>.

JSON format:
{"title": "...", "slides": [{"title": "...", "content": "...", "type": "title|content|conclusion"}]}`)

	return b.String()
}

// keyLooksValid is the cheap local availability probe: presence plus the
// documented key prefix, never a network call.
func keyLooksValid(key string) bool {
	return strings.HasPrefix(key, "gsk_")
}

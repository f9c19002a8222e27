// Package openaillm implements the generation.Provider interface against
// the OpenAI chat completion API.
package openaillm

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

const systemPrompt = "You are a professional presentation designer. " +
	"Always respond with valid JSON only."

// Provider generates decks using OpenAI GPT models.
type Provider struct {
	client *openai.Client
	cfg    config.LLMConfig
	logger *slog.Logger
}

// New creates an OpenAI provider. A missing API key leaves the provider
// constructed but unavailable. If logger is nil, a default logger will
// be used.
func New(cfg config.LLMConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		cfg:    cfg,
		logger: logger.With(slog.String("provider", "openai")),
	}

	if strings.HasPrefix(cfg.OpenAIAPIKey, "sk-") {
		p.client = openai.NewClient(cfg.OpenAIAPIKey)
	}

	return p
}

// Ensure Provider implements generation.Provider interface
var _ generation.Provider = (*Provider)(nil)

// Type implements generation.Provider.Type
func (p *Provider) Type() generation.ProviderType {
	return generation.ProviderOpenAI
}

// Name implements generation.Provider.Name
func (p *Provider) Name() string {
	return "OpenAI (" + p.cfg.OpenAIModel + ")"
}

// IsAvailable implements generation.Provider.IsAvailable. OpenAI keys
// start with "sk-"; anything else is treated as unconfigured.
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
// OpenAI supports a JSON response format constraint, so it is requested
// here in addition to the prompt instructions.
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
			Model: p.cfg.OpenAIModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.7,
			MaxTokens:   2000,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("openai chat completion: %w", err)
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

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %d-slide presentation in language %q about: %s\n\n",
		req.SlideCount, req.Language, req.Topic)

	if req.SupplementaryText != "" {
		fmt.Fprintf(&b, "Use this source material where relevant:\n%s\n\n", req.SupplementaryText)
	}

	if req.StyleHint != "" {
		fmt.Fprintf(&b, "Desired tone: %s.\n\n", req.StyleHint)
	}

	b.WriteString(`The deck opens with a title slide, continues with content slides, and ends with a conclusion.
Each slide body is 50-150 words of HTML using only <h1>-<h3>, <p>, <strong>, <em>, <ul>, <li>, <br>.

Respond with a JSON object of this exact shape:
{"title": "...", "slides": [{"title": "...", "content": "...", "type": "title|content|conclusion"}]}`)

	return b.String()
}

// Package ollama implements the generation.Provider interface against a
// local Ollama instance via its OpenAI-compatible endpoint.
package ollama

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

// Provider generates decks using locally hosted Ollama models.
type Provider struct {
	client *openai.Client
	cfg    config.LLMConfig
	logger *slog.Logger
}

// New creates an Ollama provider. An empty base URL leaves the provider
// constructed but unavailable. If logger is nil, a default logger will
// be used.
func New(cfg config.LLMConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		cfg:    cfg,
		logger: logger.With(slog.String("provider", "ollama")),
	}

	if cfg.OllamaBaseURL != "" {
		// Ollama ignores the API key but the client requires one.
		clientCfg := openai.DefaultConfig("ollama")
		clientCfg.BaseURL = strings.TrimSuffix(cfg.OllamaBaseURL, "/") + "/v1"
		p.client = openai.NewClientWithConfig(clientCfg)
	}

	return p
}

// Ensure Provider implements generation.Provider interface
var _ generation.Provider = (*Provider)(nil)

// Type implements generation.Provider.Type
func (p *Provider) Type() generation.ProviderType {
	return generation.ProviderOllama
}

// Name implements generation.Provider.Name
func (p *Provider) Name() string {
	return "Ollama (" + p.cfg.OllamaModel + ")"
}

// IsAvailable implements generation.Provider.IsAvailable. Availability
// means a base URL is configured; whether the instance answers is only
// known at generation time.
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

// complete performs the chat completion. Local models answer slowly, so
// a single attempt with the configured timeout is used instead of the
// retry loop the hosted providers get.
func (p *Provider) complete(ctx context.Context, req domain.GenerationRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: p.cfg.OllamaModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", generation.ErrMalformedOutput)
	}

	return resp.Choices[0].Message.Content, nil
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

	b.WriteString(`Answer with ONLY valid JSON, no commentary and no markdown fences:
{"title": "...", "slides": [{"title": "...", "content": "...", "type": "title|content|conclusion"}]}

Each slide body is 50-150 words of HTML using only <h1>-<h3>, <p>, <strong>, <em>, <ul>, <li>, <br>.
The first slide is type "title", the last slide is type "conclusion".`)

	return b.String()
}

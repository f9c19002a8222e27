package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/deck-api/internal/config"
	"github.com/phrazzld/deck-api/internal/domain"
)

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		DefaultProvider:       "groq",
		GroqAPIKey:            "gsk_test",
		GroqModel:             "llama-3.3-70b-versatile",
		RequestTimeoutSeconds: 5,
		MaxRetries:            0,
		RetryDelaySeconds:     1,
	}
}

// newTestProvider points the provider at a fake upstream server.
func newTestProvider(t *testing.T, upstreamURL string) *Provider {
	t.Helper()
	p := New(testConfig(), nil)
	require.True(t, p.IsAvailable())

	clientCfg := openai.DefaultConfig("gsk_test")
	clientCfg.BaseURL = upstreamURL
	p.client = openai.NewClientWithConfig(clientCfg)
	return p
}

func completionResponse(content string) any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestKeyLooksValid(t *testing.T) {
	t.Parallel()

	assert.True(t, keyLooksValid("gsk_abc123"))
	assert.False(t, keyLooksValid(""))
	assert.False(t, keyLooksValid("sk-wrong-vendor"))
}

func TestProviderUnavailableWithoutKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.GroqAPIKey = ""
	p := New(cfg, nil)

	assert.False(t, p.IsAvailable())
}

func TestGenerateParsesUpstreamDeck(t *testing.T) {
	t.Parallel()

	deckJSON := `{"title":"Go Concurrency","slides":[` +
		`{"title":"Go Concurrency","content":"<p>Intro</p>","type":"title"},` +
		`{"title":"Goroutines","content":"<p>Body</p>","type":"content"},` +
		`{"title":"Wrap Up","content":"<p>End</p>","type":"conclusion"}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("```json\n" + deckJSON + "\n```"))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	req, err := domain.NewGenerationRequest("Go Concurrency", "", 3, "en", "")
	require.NoError(t, err)

	deck := p.Generate(context.Background(), req)

	assert.Equal(t, "Go Concurrency", deck.Title)
	require.Len(t, deck.Slides, 3)
	assert.Equal(t, domain.SlideKindTitle, deck.Slides[0].Kind)
	assert.Equal(t, domain.SlideKindConclusion, deck.Slides[2].Kind)
}

func TestGenerateFallsBackOnUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	req, err := domain.NewGenerationRequest("Quantum Computing", "", 4, "en", "")
	require.NoError(t, err)

	deck := p.Generate(context.Background(), req)

	// The fallback deck always honors the requested shape.
	assert.Contains(t, deck.Title, "Quantum Computing")
	assert.Len(t, deck.Slides, 4)
}

func TestGenerateFallsBackOnMalformedOutput(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("sorry, I cannot produce JSON today"))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	req, err := domain.NewGenerationRequest("History of Tea", "", 3, "en", "")
	require.NoError(t, err)

	deck := p.Generate(context.Background(), req)

	assert.Contains(t, deck.Title, "History of Tea")
	assert.Len(t, deck.Slides, 3)
}

func TestGenerateFallsBackWhenUnconfigured(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.GroqAPIKey = ""
	p := New(cfg, nil)

	req, err := domain.NewGenerationRequest("Topic", "", 3, "en", "")
	require.NoError(t, err)

	deck := p.Generate(context.Background(), req)
	assert.Len(t, deck.Slides, 3)
}

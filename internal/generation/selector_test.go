package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/deck-api/internal/domain"
)

// stubProvider is a minimal Provider for selector tests.
type stubProvider struct {
	typ       ProviderType
	available bool
}

func (p *stubProvider) Type() ProviderType { return p.typ }
func (p *stubProvider) Name() string       { return string(p.typ) }
func (p *stubProvider) IsAvailable() bool  { return p.available }
func (p *stubProvider) Generate(_ context.Context, req domain.GenerationRequest) domain.Deck {
	return FallbackDeck(req)
}

func TestNewSelectorValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSelector(nil, ProviderGroq, nil)
	assert.ErrorIs(t, err, ErrNoProviders)

	_, err = NewSelector([]Provider{&stubProvider{typ: ProviderGroq}}, ProviderOpenAI, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = NewSelector([]Provider{
		&stubProvider{typ: ProviderGroq},
		&stubProvider{typ: ProviderGroq},
	}, ProviderGroq, nil)
	assert.Error(t, err, "duplicate registration must be rejected")
}

func TestSelectorPickHonorsPriorityOrder(t *testing.T) {
	t.Parallel()

	groq := &stubProvider{typ: ProviderGroq, available: false}
	openai := &stubProvider{typ: ProviderOpenAI, available: true}
	gemini := &stubProvider{typ: ProviderGemini, available: true}

	s, err := NewSelector([]Provider{groq, openai, gemini}, ProviderGroq, nil)
	require.NoError(t, err)

	picked, err := s.Pick("")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, picked.Type(), "first available in priority order wins")
}

func TestSelectorPickFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s, err := NewSelector([]Provider{
		&stubProvider{typ: ProviderGroq, available: false},
		&stubProvider{typ: ProviderOpenAI, available: false},
	}, ProviderGroq, nil)
	require.NoError(t, err)

	picked, err := s.Pick("")
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, picked.Type(), "selector never returns no provider")
}

func TestSelectorPickPreferredType(t *testing.T) {
	t.Parallel()

	s, err := NewSelector([]Provider{
		&stubProvider{typ: ProviderGroq, available: true},
		&stubProvider{typ: ProviderOllama, available: false},
	}, ProviderGroq, nil)
	require.NoError(t, err)

	picked, err := s.Pick(ProviderOllama)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, picked.Type(), "explicit preference bypasses availability")

	_, err = s.Pick(ProviderGemini)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestSelectorList(t *testing.T) {
	t.Parallel()

	s, err := NewSelector([]Provider{
		&stubProvider{typ: ProviderGroq, available: true},
		&stubProvider{typ: ProviderOpenAI, available: false},
	}, ProviderGroq, nil)
	require.NoError(t, err)

	statuses := s.List()
	require.Len(t, statuses, 2)
	assert.Equal(t, ProviderGroq, statuses[0].Type)
	assert.True(t, statuses[0].Available)
	assert.True(t, statuses[0].IsDefault)
	assert.False(t, statuses[1].Available)
	assert.False(t, statuses[1].IsDefault)
}

package generation

import (
	"context"

	"github.com/phrazzld/deck-api/internal/domain"
)

// ProviderType identifies a generation provider variant. Variants are
// selected by explicit enumeration, not dynamic lookup.
type ProviderType string

// Registered provider variants
const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
)

// Provider is one generation backend variant. Implementations differ only
// in prompt construction, request shaping, and raw-output parsing.
//
// Generate never fails: upstream errors, malformed output the provider
// cannot repair, and exhausted retries are all absorbed into a
// deterministic local fallback deck synthesized from the request. The
// selector and the orchestrator therefore need no provider-specific error
// handling.
type Provider interface {
	// Type returns the variant identifier.
	Type() ProviderType

	// Name returns a human-readable provider name for logging and the
	// provider listing endpoint.
	Name() string

	// IsAvailable reports whether the provider is configured well enough
	// to attempt an upstream call. It is a cheap local check (credential
	// presence and shape), never a network probe.
	IsAvailable() bool

	// Generate produces a structured deck for the request. The returned
	// deck always passes domain.Deck.Validate.
	Generate(ctx context.Context, req domain.GenerationRequest) domain.Deck
}

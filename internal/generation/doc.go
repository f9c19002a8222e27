// Package generation defines the provider abstraction for deck
// generation: the Provider interface implemented by each backend variant
// (internal/platform/groq, openaillm, gemini, ollama), the Selector that
// orders variants by priority with fallback, and the shared output-repair
// and fallback-deck helpers that guarantee a provider always yields a
// structurally valid deck.
package generation

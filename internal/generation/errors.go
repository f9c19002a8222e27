package generation

import "errors"

// Common generation errors.
var (
	// ErrUnknownProvider is returned by the selector when a specific
	// provider type was requested but is not registered.
	ErrUnknownProvider = errors.New("unknown generation provider")

	// ErrNoProviders is returned when a selector is constructed without
	// any providers.
	ErrNoProviders = errors.New("at least one provider is required")

	// ErrMalformedOutput indicates upstream output that could not be
	// repaired into the expected deck schema. Providers absorb it into
	// their fallback deck; it never crosses the provider boundary.
	ErrMalformedOutput = errors.New("malformed provider output")
)

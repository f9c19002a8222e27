package generation

import (
	"fmt"
	"log/slog"
)

// ProviderStatus describes one registered provider for the listing
// endpoint.
type ProviderStatus struct {
	Type      ProviderType `json:"type"`
	Name      string       `json:"name"`
	Available bool         `json:"available"`
	IsDefault bool         `json:"is_default"`
}

// Selector orders the registered provider variants by priority and hands
// the orchestrator one working provider, encapsulating fallback. It never
// returns "no provider": when nothing reports itself available, the
// designated default is returned and its internal fallback document takes
// over.
type Selector struct {
	providers   map[ProviderType]Provider
	priority    []ProviderType
	defaultType ProviderType
	logger      *slog.Logger
}

// NewSelector creates a Selector over the given providers. The slice
// order is the fixed priority order used when no specific type is
// requested. The default type must be one of the registered providers.
// If logger is nil, a default logger will be used.
func NewSelector(providers []Provider, defaultType ProviderType, logger *slog.Logger) (*Selector, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	if logger == nil {
		logger = slog.Default()
	}

	byType := make(map[ProviderType]Provider, len(providers))
	priority := make([]ProviderType, 0, len(providers))
	for _, p := range providers {
		if _, dup := byType[p.Type()]; dup {
			return nil, fmt.Errorf("duplicate provider type %q", p.Type())
		}
		byType[p.Type()] = p
		priority = append(priority, p.Type())
	}

	if _, ok := byType[defaultType]; !ok {
		return nil, fmt.Errorf("%w: default %q is not registered", ErrUnknownProvider, defaultType)
	}

	return &Selector{
		providers:   byType,
		priority:    priority,
		defaultType: defaultType,
		logger:      logger.With(slog.String("component", "provider_selector")),
	}, nil
}

// Pick returns a provider for one generation run. If preferred is
// non-empty, that exact variant is returned regardless of availability
// (its own fallback covers the unavailable case); an unregistered type
// yields ErrUnknownProvider. Otherwise the first available provider in
// priority order wins, falling back to the default when none is
// available.
func (s *Selector) Pick(preferred ProviderType) (Provider, error) {
	if preferred != "" {
		p, ok := s.providers[preferred]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, preferred)
		}
		return p, nil
	}

	for _, t := range s.priority {
		p := s.providers[t]
		if p.IsAvailable() {
			return p, nil
		}
	}

	s.logger.Warn("no provider reports available, using default",
		slog.String("default", string(s.defaultType)))

	return s.providers[s.defaultType], nil
}

// List returns the status of every registered provider in priority
// order.
func (s *Selector) List() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(s.priority))
	for _, t := range s.priority {
		p := s.providers[t]
		statuses = append(statuses, ProviderStatus{
			Type:      t,
			Name:      p.Name(),
			Available: p.IsAvailable(),
			IsDefault: t == s.defaultType,
		})
	}

	return statuses
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/events"
	"github.com/phrazzld/deck-api/internal/generation"
	"github.com/phrazzld/deck-api/internal/store"
)

// refundTimeout bounds the best-effort refund performed during failure
// unwind, so a cancelled run cannot hang on its own cleanup.
const refundTimeout = 5 * time.Second

// Requester identifies who asked for a generation run. Authenticated
// users are never quota-checked; anonymous requesters are keyed by a
// session token and consume ledger credits.
type Requester struct {
	// UserID is the authenticated principal's ID, empty for guests.
	UserID string

	// SessionID is the client-supplied guest session token. May be empty
	// on first contact, in which case the ledger mints one.
	SessionID string

	// IPAddress and UserAgent are recorded on guest accounts for
	// provenance only.
	IPAddress string
	UserAgent string
}

// Anonymous reports whether quota applies to this requester.
func (r Requester) Anonymous() bool {
	return r.UserID == ""
}

// Result is the outcome of a completed generation run. SessionID and
// CreditsLeft are populated only for anonymous requesters.
type Result struct {
	ArtifactID  string
	HTML        string
	SessionID   string
	CreditsLeft int
}

// CreditLedger is the quota surface the orchestrator needs.
type CreditLedger interface {
	GetOrCreate(ctx context.Context, sessionID, ipAddress, userAgent string) (string, int, error)
	Reserve(ctx context.Context, sessionID string) (bool, error)
	Refund(ctx context.Context, sessionID string) error
	Balance(ctx context.Context, sessionID string) (int, error)
}

// ProviderPicker hands the orchestrator one working provider.
type ProviderPicker interface {
	Pick(preferred generation.ProviderType) (generation.Provider, error)
}

// SlideEnricher attaches best-effort images to slides in place.
type SlideEnricher interface {
	EnrichSlides(ctx context.Context, slides []domain.Slide, styleHint string)
}

// DeckRenderer materializes an enriched deck into HTML.
type DeckRenderer interface {
	Render(deck domain.Deck, templateID string) string
}

// HTMLNormalizer is the external post-processing collaborator. It
// degrades to returning its input, never failing the run.
type HTMLNormalizer interface {
	Normalize(ctx context.Context, html, topic, language string) string
}

// DeckService sequences a generation run: quota, provider selection,
// enrichment fan-out, materialization, and artifact persistence, with
// refund-on-failure for anonymous requesters.
type DeckService struct {
	ledger     CreditLedger
	picker     ProviderPicker
	enricher   SlideEnricher
	renderer   DeckRenderer
	normalizer HTMLNormalizer
	artifacts  store.ArtifactStore
	emitter    events.Emitter
	logger     *slog.Logger
}

// NewDeckService creates the orchestrator. If logger is nil, a default
// logger will be used. Panics if any collaborator is nil, as this
// indicates an unrecoverable configuration error.
func NewDeckService(
	ledger CreditLedger,
	picker ProviderPicker,
	enricher SlideEnricher,
	renderer DeckRenderer,
	normalizer HTMLNormalizer,
	artifacts store.ArtifactStore,
	emitter events.Emitter,
	logger *slog.Logger,
) *DeckService {
	if ledger == nil {
		panic("credit ledger cannot be nil")
	}
	if picker == nil {
		panic("provider picker cannot be nil")
	}
	if enricher == nil {
		panic("slide enricher cannot be nil")
	}
	if renderer == nil {
		panic("deck renderer cannot be nil")
	}
	if normalizer == nil {
		panic("html normalizer cannot be nil")
	}
	if artifacts == nil {
		panic("artifact store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckService{
		ledger:     ledger,
		picker:     picker,
		enricher:   enricher,
		renderer:   renderer,
		normalizer: normalizer,
		artifacts:  artifacts,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "deck_service")),
	}
}

// emit publishes a lifecycle event, best-effort. emitter may be nil when
// no observers are configured.
func (s *DeckService) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.WarnContext(ctx, "could not build lifecycle event", "error", err)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "lifecycle event delivery failed",
			"event_type", eventType, "error", err)
	}
}

// Generate runs the full pipeline for one request. Each call mints a new
// artifact ID and, for anonymous requesters, consumes one credit; the
// credit is refunded if the run fails after reservation. preferredType
// may be empty to let the selector choose by priority.
func (s *DeckService) Generate(
	ctx context.Context,
	requester Requester,
	req domain.GenerationRequest,
	templateID string,
	preferredType generation.ProviderType,
) (*Result, error) {
	sessionID, reserved, startBalance, err := s.identify(ctx, requester)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, requester, sessionID, req, templateID, preferredType)
	if err != nil {
		if reserved {
			s.refundOnFailure(sessionID)
		}
		s.emit(ctx, events.TypeRunFailed, events.RunFailedPayload{
			OwnerKey: s.ownerKey(requester, sessionID),
			Reason:   err.Error(),
		})
		return nil, err
	}

	if requester.Anonymous() {
		result.SessionID = sessionID
		if balance, balErr := s.ledger.Balance(ctx, sessionID); balErr == nil {
			result.CreditsLeft = balance
		} else {
			// Derive from the reserve-time balance rather than reporting
			// zero to a session that still has credits.
			s.logger.WarnContext(ctx, "could not read balance for response", "error", balErr)
			result.CreditsLeft = startBalance - 1
			if result.CreditsLeft < 0 {
				result.CreditsLeft = 0
			}
		}
	}

	return result, nil
}

// identify resolves quota for the requester. It returns the session ID
// for anonymous requesters, whether a credit was reserved, and the
// balance observed before the reservation.
func (s *DeckService) identify(ctx context.Context, requester Requester) (string, bool, int, error) {
	if !requester.Anonymous() {
		return "", false, 0, nil
	}

	sessionID, balance, err := s.ledger.GetOrCreate(ctx, requester.SessionID, requester.IPAddress, requester.UserAgent)
	if err != nil {
		return "", false, 0, fmt.Errorf("%w: resolving session: %v", ErrLedgerUnavailable, err)
	}

	ok, err := s.ledger.Reserve(ctx, sessionID)
	if err != nil {
		return "", false, 0, fmt.Errorf("%w: reserving credit: %v", ErrLedgerUnavailable, err)
	}
	if !ok {
		s.logger.InfoContext(ctx, "reservation rejected", "session_id", sessionID)
		return "", false, 0, ErrInsufficientCredits
	}

	return sessionID, true, balance, nil
}

// run executes the post-reservation pipeline. Any error it returns
// triggers the refund unwind in Generate.
func (s *DeckService) run(
	ctx context.Context,
	requester Requester,
	sessionID string,
	req domain.GenerationRequest,
	templateID string,
	preferredType generation.ProviderType,
) (*Result, error) {
	provider, err := s.picker.Pick(preferredType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.logger.InfoContext(ctx, "starting generation",
		"provider", provider.Name(), "topic", req.Topic, "slides", req.SlideCount)

	// Never fails: the provider absorbs upstream errors into its
	// deterministic fallback.
	deck := provider.Generate(ctx, req)

	s.enricher.EnrichSlides(ctx, deck.Slides, req.StyleHint)

	draft := s.renderer.Render(deck, templateID)

	ownerKey := s.ownerKey(requester, sessionID)

	artifact, err := domain.NewArtifact(ownerKey)
	if err != nil {
		return nil, fmt.Errorf("%w: minting artifact: %v", ErrGenerationFailed, err)
	}

	if err := s.artifacts.SaveDraft(ctx, artifact, draft); err != nil {
		return nil, fmt.Errorf("%w: persisting draft: %v", ErrPersistenceFailure, err)
	}

	// Degrades to the draft on collaborator failure or timeout.
	final := s.normalizer.Normalize(ctx, draft, req.Topic, req.Language)

	if err := s.artifacts.SaveFinal(ctx, artifact, final); err != nil {
		return nil, fmt.Errorf("%w: persisting final: %v", ErrPersistenceFailure, err)
	}

	s.logger.InfoContext(ctx, "generation completed",
		"artifact_id", artifact.ID.String(), "owner", ownerKey)

	s.emit(ctx, events.TypeRunCompleted, events.RunCompletedPayload{
		ArtifactID: artifact.ID.String(),
		OwnerKey:   ownerKey,
		Provider:   string(provider.Type()),
	})

	return &Result{
		ArtifactID: artifact.ID.String(),
		HTML:       final,
	}, nil
}

// refundOnFailure undoes the reservation of a failed run. It uses a
// detached context with its own short timeout so that a cancelled run
// still attempts the refund without hanging on cleanup. A refund that
// fails here is logged as a reconciliation event; the credit stays
// consumed until an operator intervenes.
func (s *DeckService) refundOnFailure(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), refundTimeout)
	defer cancel()

	if err := s.ledger.Refund(ctx, sessionID); err != nil {
		s.logger.Error("reconciliation required: refund failed after unwound run",
			"session_id", sessionID, "error", err)
		s.emit(ctx, events.TypeReconciliationRequired, events.ReconciliationPayload{
			SessionID: sessionID,
			Reason:    err.Error(),
		})
	}
}

// ownerKey derives the artifact owner identity for a requester,
// preferring the authenticated user over the guest session.
func (s *DeckService) ownerKey(requester Requester, sessionID string) string {
	if requester.Anonymous() {
		return domain.GuestOwnerKey(sessionID)
	}
	return domain.UserOwnerKey(requester.UserID)
}

// Snapshot reads back a persisted artifact snapshot for its owner.
func (s *DeckService) Snapshot(ctx context.Context, ownerKey, artifactID string, snapshot domain.Snapshot) (string, error) {
	id, err := domain.ParseArtifactID(artifactID)
	if err != nil {
		return "", fmt.Errorf("parsing artifact id: %w", err)
	}

	artifact := domain.Artifact{OwnerKey: ownerKey, ID: id}
	if snapshot == domain.SnapshotDraft {
		return s.artifacts.GetDraft(ctx, artifact)
	}

	html, err := s.artifacts.GetFinal(ctx, artifact)
	if errors.Is(err, store.ErrArtifactNotFound) {
		// The run may have died between draft and final.
		return s.artifacts.GetDraft(ctx, artifact)
	}
	return html, err
}

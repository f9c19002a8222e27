// Package credit implements the credit ledger, which owns the
// read-through/write-through policy across the durable counter store and
// the optional cache tier and exposes atomic reserve/refund/balance
// operations keyed by session ID.
package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/store"
)

// DefaultCacheTTL bounds how long counter keys live in the cache tier
// when no TTL is configured. The durable tier has no expiry.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Ledger mediates all credit balance access. The durable store is
// authoritative; the cache tier is a latency optimization whose
// unavailability silently degrades to durable-only operation.
type Ledger struct {
	durable  store.CounterStore
	cache    store.CounterCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewLedger creates a credit ledger. cache may be nil, in which case the
// ledger runs durable-only. If logger is nil, a default logger will be
// used. Panics if durable is nil, as this indicates an unrecoverable
// configuration error.
func NewLedger(durable store.CounterStore, cache store.CounterCache, cacheTTL time.Duration, logger *slog.Logger) *Ledger {
	if durable == nil {
		panic("durable counter store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	return &Ledger{
		durable:  durable,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("component", "credit_ledger")),
	}
}

// GetOrCreate resolves a session to its current balance, minting a fresh
// session and account with the default allowance when sessionID is empty
// or unknown. Read-through: cache first, then durable, then create.
func (l *Ledger) GetOrCreate(ctx context.Context, sessionID, ipAddress, userAgent string) (string, int, error) {
	if sessionID != "" {
		if credits, err := l.cachedBalance(ctx, sessionID); err == nil {
			return sessionID, credits, nil
		}

		account, err := l.durable.Get(ctx, sessionID)
		if err == nil {
			if touchErr := l.durable.Touch(ctx, sessionID); touchErr != nil {
				l.logger.WarnContext(ctx, "failed to touch account", "error", touchErr)
			}
			l.populateCache(ctx, sessionID, account.Credits)
			return sessionID, account.Credits, nil
		}
		if !errors.Is(err, store.ErrAccountNotFound) {
			return "", 0, fmt.Errorf("reading credit account: %w", err)
		}
	}

	account, err := domain.NewCreditAccount(sessionID, ipAddress, userAgent)
	if err != nil {
		return "", 0, fmt.Errorf("creating credit account: %w", err)
	}

	if err := l.durable.Create(ctx, account); err != nil {
		return "", 0, fmt.Errorf("saving credit account: %w", err)
	}

	l.logger.InfoContext(ctx, "created credit account",
		"session_id", account.SessionID, "credits", account.Credits)
	l.populateCache(ctx, account.SessionID, account.Credits)

	return account.SessionID, account.Credits, nil
}

// Reserve atomically consumes one credit if the balance is positive and
// reports whether the reservation succeeded. The durable tier performs
// the authoritative decrement; the cache tier either decrements in a
// single atomic round trip first or is repopulated from the durable
// result. Returns an error only when the durable tier cannot be reached,
// in which case the caller must not assume success.
func (l *Ledger) Reserve(ctx context.Context, sessionID string) (bool, error) {
	cacheApplied := false
	if l.cache != nil {
		applied, err := l.cache.TryDecrement(ctx, sessionID)
		switch {
		case err == nil && !applied:
			// The cached balance is zero. The cache only ever holds
			// values we wrote, so reject without a durable round trip.
			return false, nil
		case err == nil:
			cacheApplied = true
		case !errors.Is(err, store.ErrCacheMiss):
			l.logger.WarnContext(ctx, "cache unavailable, durable-only reserve", "error", err)
		}
	}

	applied, err := l.durable.TryDecrement(ctx, sessionID)
	if err != nil {
		if cacheApplied {
			l.rollbackCacheDecrement(ctx, sessionID)
		}
		return false, fmt.Errorf("reserving credit: %w", err)
	}

	if !applied && cacheApplied {
		// Cache was stale relative to the durable truth.
		l.rollbackCacheDecrement(ctx, sessionID)
	}
	if applied && !cacheApplied {
		l.refreshCache(ctx, sessionID)
	}

	return applied, nil
}

// Refund restores one credit, undoing a prior successful Reserve whose
// downstream work failed. Returns an error when the durable tier cannot
// be reached; pairing refunds 1:1 with reserves is the caller's job.
func (l *Ledger) Refund(ctx context.Context, sessionID string) error {
	if err := l.durable.Increment(ctx, sessionID); err != nil {
		return fmt.Errorf("refunding credit: %w", err)
	}

	if l.cache != nil {
		if err := l.cache.Increment(ctx, sessionID); err != nil {
			if errors.Is(err, store.ErrCacheMiss) {
				l.refreshCache(ctx, sessionID)
			} else {
				l.logger.WarnContext(ctx, "cache refund failed", "error", err)
			}
		}
	}

	return nil
}

// Balance returns the current balance, cache-first with durable fallback.
func (l *Ledger) Balance(ctx context.Context, sessionID string) (int, error) {
	if credits, err := l.cachedBalance(ctx, sessionID); err == nil {
		return credits, nil
	}

	account, err := l.durable.Get(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("reading balance: %w", err)
	}

	l.populateCache(ctx, sessionID, account.Credits)
	return account.Credits, nil
}

// cachedBalance reads the cache tier; any error means "fall through".
func (l *Ledger) cachedBalance(ctx context.Context, sessionID string) (int, error) {
	if l.cache == nil {
		return 0, store.ErrCacheMiss
	}

	credits, err := l.cache.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrCacheMiss) {
			l.logger.WarnContext(ctx, "cache read failed", "error", err)
		}
		return 0, err
	}

	return credits, nil
}

// populateCache mirrors a known balance into the cache tier, best-effort.
func (l *Ledger) populateCache(ctx context.Context, sessionID string, credits int) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Put(ctx, sessionID, credits, l.cacheTTL); err != nil {
		l.logger.WarnContext(ctx, "cache populate failed", "error", err)
	}
}

// refreshCache re-reads the durable balance and mirrors it, best-effort.
func (l *Ledger) refreshCache(ctx context.Context, sessionID string) {
	if l.cache == nil {
		return
	}
	account, err := l.durable.Get(ctx, sessionID)
	if err != nil {
		l.logger.WarnContext(ctx, "cache refresh read failed", "error", err)
		return
	}
	l.populateCache(ctx, sessionID, account.Credits)
}

// rollbackCacheDecrement undoes a cache-tier decrement whose durable
// counterpart did not happen, best-effort.
func (l *Ledger) rollbackCacheDecrement(ctx context.Context, sessionID string) {
	if err := l.cache.Increment(ctx, sessionID); err != nil {
		l.logger.WarnContext(ctx, "cache rollback failed", "error", err)
	}
}

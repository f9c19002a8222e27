package store

import (
	"context"
	"time"

	"github.com/phrazzld/deck-api/internal/domain"
)

// CounterStore defines the interface for the durable credit account tier.
// It is the source of truth for balances; all mutations are atomic at the
// store so concurrent callers can never observe or produce a negative
// balance.
type CounterStore interface {
	// Create saves a new credit account.
	// Returns validation errors from the domain CreditAccount if data is invalid.
	Create(ctx context.Context, account *domain.CreditAccount) error

	// Get retrieves a credit account by session ID.
	// Returns ErrAccountNotFound if the account does not exist.
	Get(ctx context.Context, sessionID string) (*domain.CreditAccount, error)

	// TryDecrement atomically decrements the balance by one if and only
	// if it is currently positive, updating LastUsedAt. It reports
	// whether the decrement was applied; false means the balance was
	// already zero (or the account is unknown).
	// Returns a wrapped ErrStoreUnavailable if the store cannot be reached.
	TryDecrement(ctx context.Context, sessionID string) (bool, error)

	// Increment atomically increments the balance by one, updating
	// LastUsedAt. Used only to undo a prior successful TryDecrement.
	// Returns ErrAccountNotFound if the account does not exist.
	Increment(ctx context.Context, sessionID string) error

	// Touch updates LastUsedAt without changing the balance.
	Touch(ctx context.Context, sessionID string) error
}

// CounterCache defines the interface for the TTL-bounded cache tier
// mirroring counter state. It is a latency optimization only: every error
// it returns is degradable and the caller falls through to the durable
// tier. Implementations must make TryDecrement and Increment atomic in a
// single round trip or return ErrCacheMiss so the durable tier decides.
type CounterCache interface {
	// Get returns the cached balance for the session.
	// Returns ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, sessionID string) (int, error)

	// Put stores the balance under the session key with the given TTL.
	Put(ctx context.Context, sessionID string, credits int, ttl time.Duration) error

	// TryDecrement atomically decrements the cached balance if it is
	// positive, reporting whether the decrement was applied.
	// Returns ErrCacheMiss if the key is absent so the caller falls back
	// to the durable tier.
	TryDecrement(ctx context.Context, sessionID string) (bool, error)

	// Increment atomically increments the cached balance.
	// Returns ErrCacheMiss if the key is absent.
	Increment(ctx context.Context, sessionID string) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/store"
)

// CounterStore implements the store.CounterStore interface using a
// PostgreSQL database as the durable storage backend. All balance
// mutations are single statements with a `credits > 0` guard where
// needed, so atomicity comes from the database and no caller ever
// observes a transient negative balance.
type CounterStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCounterStore creates a new PostgreSQL implementation of the
// store.CounterStore interface. It accepts a database connection that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewCounterStore(db *sql.DB, logger *slog.Logger) *CounterStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CounterStore{
		db:     db,
		logger: logger.With(slog.String("component", "counter_store")),
	}
}

// Ensure CounterStore implements store.CounterStore interface
var _ store.CounterStore = (*CounterStore)(nil)

// Create implements store.CounterStore.Create
func (s *CounterStore) Create(ctx context.Context, account *domain.CreditAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_accounts (session_id, credits, ip_address, user_agent, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO NOTHING`,
		account.SessionID,
		account.Credits,
		account.IPAddress,
		account.UserAgent,
		account.CreatedAt,
		account.LastUsedAt,
	)
	if err != nil {
		return wrapUnavailable("create credit account", err)
	}

	return nil
}

// Get implements store.CounterStore.Get
func (s *CounterStore) Get(ctx context.Context, sessionID string) (*domain.CreditAccount, error) {
	var account domain.CreditAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, credits, ip_address, user_agent, created_at, last_used_at
		FROM credit_accounts
		WHERE session_id = $1`,
		sessionID,
	).Scan(
		&account.SessionID,
		&account.Credits,
		&account.IPAddress,
		&account.UserAgent,
		&account.CreatedAt,
		&account.LastUsedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, wrapUnavailable("get credit account", err)
	}

	return &account, nil
}

// TryDecrement implements store.CounterStore.TryDecrement.
// The `credits > 0` predicate makes the decrement conditional and atomic:
// the statement affects either exactly one row (reservation succeeded) or
// zero rows (balance exhausted or account unknown).
func (s *CounterStore) TryDecrement(ctx context.Context, sessionID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE credit_accounts
		SET credits = credits - 1, last_used_at = now()
		WHERE session_id = $1 AND credits > 0`,
		sessionID,
	)
	if err != nil {
		return false, wrapUnavailable("decrement credits", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, wrapUnavailable("decrement credits", err)
	}

	return affected == 1, nil
}

// Increment implements store.CounterStore.Increment
func (s *CounterStore) Increment(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE credit_accounts
		SET credits = credits + 1, last_used_at = now()
		WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return wrapUnavailable("increment credits", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapUnavailable("increment credits", err)
	}

	if affected == 0 {
		return store.ErrAccountNotFound
	}

	return nil
}

// Touch implements store.CounterStore.Touch
func (s *CounterStore) Touch(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE credit_accounts
		SET last_used_at = now()
		WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return wrapUnavailable("touch credit account", err)
	}

	return nil
}

// wrapUnavailable maps a driver error onto the store.ErrStoreUnavailable
// sentinel while preserving the underlying cause for logging.
func wrapUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", store.ErrStoreUnavailable, op, err)
}

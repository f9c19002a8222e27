package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with context via fmt.Errorf and %w
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrInsufficientCredits indicates the anonymous session has no
	// generation credits left. The run stops before any side effects.
	// API layer should map this to HTTP 403 Forbidden.
	ErrInsufficientCredits = errors.New("insufficient generation credits")

	// ErrGenerationFailed indicates the run failed after the credit was
	// reserved; the reservation has been refunded on a best-effort basis.
	// API layer should map this to HTTP 500 and callers may retry.
	ErrGenerationFailed = errors.New("deck generation failed")
)

// Finer-grained classifications of ErrGenerationFailed. Both satisfy
// errors.Is(err, ErrGenerationFailed) so the API mapping stays a single
// check, while logs and tests can distinguish the failing tier.
var (
	// ErrLedgerUnavailable indicates the durable credit tier could not
	// answer a reserve or session lookup.
	ErrLedgerUnavailable = fmt.Errorf("%w: credit ledger unavailable", ErrGenerationFailed)

	// ErrPersistenceFailure indicates an artifact snapshot could not be
	// written.
	ErrPersistenceFailure = fmt.Errorf("%w: artifact persistence failed", ErrGenerationFailed)
)

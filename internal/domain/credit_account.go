package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultCreditAllowance is the number of generation credits a fresh
// anonymous session starts with.
const DefaultCreditAllowance = 50

// Common validation errors for CreditAccount
var (
	ErrEmptySessionID  = errors.New("session ID cannot be empty")
	ErrNegativeCredits = errors.New("credits cannot be negative")
)

// CreditAccount tracks the remaining generation quota of one anonymous
// session. The durable store is the source of truth for the balance;
// IPAddress and UserAgent are recorded for provenance only and are never
// used for enforcement.
type CreditAccount struct {
	SessionID  string    `json:"session_id"`
	Credits    int       `json:"credits"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// NewCreditAccount creates a new CreditAccount with the default allowance.
// If sessionID is empty, a fresh one is minted so first-contact clients
// receive an identifier they can persist.
// Returns an error if validation fails.
func NewCreditAccount(sessionID, ipAddress, userAgent string) (*CreditAccount, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	now := time.Now().UTC()
	account := &CreditAccount{
		SessionID:  sessionID,
		Credits:    DefaultCreditAllowance,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastUsedAt: now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the CreditAccount has valid data.
// Returns an error if any field fails validation.
func (a *CreditAccount) Validate() error {
	if a.SessionID == "" {
		return ErrEmptySessionID
	}

	if a.Credits < 0 {
		return ErrNegativeCredits
	}

	return nil
}

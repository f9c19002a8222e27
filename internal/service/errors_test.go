package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrInsufficientCredits", func(t *testing.T) {
		assert.Equal(t, "insufficient generation credits", ErrInsufficientCredits.Error())
		assert.False(t, errors.Is(ErrInsufficientCredits, ErrGenerationFailed),
			"quota rejection is not a retryable failure")
	})

	t.Run("classified failures are retryable", func(t *testing.T) {
		assert.True(t, errors.Is(ErrLedgerUnavailable, ErrGenerationFailed))
		assert.True(t, errors.Is(ErrPersistenceFailure, ErrGenerationFailed))
	})

	t.Run("classifications stay distinct", func(t *testing.T) {
		assert.False(t, errors.Is(ErrLedgerUnavailable, ErrPersistenceFailure))
		assert.False(t, errors.Is(ErrPersistenceFailure, ErrLedgerUnavailable))
	})

	t.Run("wrapping preserves the chain", func(t *testing.T) {
		err := fmt.Errorf("%w: persisting draft: %v", ErrPersistenceFailure, errors.New("disk full"))
		assert.True(t, errors.Is(err, ErrPersistenceFailure))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.Contains(t, err.Error(), "disk full")
	})
}

package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Snapshot names the two persisted states of a generated artifact.
type Snapshot string

// The two snapshots written for every artifact. Draft is the materialized
// deck before external normalization; Final is what the caller receives.
const (
	SnapshotDraft Snapshot = "draft"
	SnapshotFinal Snapshot = "final"
)

// Common validation errors for Artifact
var (
	ErrEmptyOwnerKey     = errors.New("artifact owner key cannot be empty")
	ErrEmptyArtifactID   = errors.New("artifact ID cannot be empty")
	ErrInvalidArtifactID = errors.New("artifact ID is not a valid UUID")
)

// Artifact identifies one generated document. The ID is minted fresh for
// every generation run, so an (OwnerKey, ID) pair never has more than one
// writer and snapshots are immutable once written.
type Artifact struct {
	OwnerKey string
	ID       uuid.UUID
}

// NewArtifact mints an artifact identity for a generation run.
func NewArtifact(ownerKey string) (Artifact, error) {
	if ownerKey == "" {
		return Artifact{}, ErrEmptyOwnerKey
	}

	return Artifact{
		OwnerKey: ownerKey,
		ID:       uuid.New(),
	}, nil
}

// Validate checks if the Artifact has valid data.
func (a Artifact) Validate() error {
	if a.OwnerKey == "" {
		return ErrEmptyOwnerKey
	}

	if a.ID == uuid.Nil {
		return ErrEmptyArtifactID
	}

	return nil
}

// ParseArtifactID parses a client-supplied artifact identifier.
func ParseArtifactID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidArtifactID
	}
	return id, nil
}

// UserOwnerKey returns the artifact owner key for an authenticated user.
func UserOwnerKey(userID string) string {
	return "user:" + userID
}

// GuestOwnerKey returns the artifact owner key for an anonymous session.
func GuestOwnerKey(sessionID string) string {
	return "guest:" + sessionID
}

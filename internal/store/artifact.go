package store

import (
	"context"

	"github.com/phrazzld/deck-api/internal/domain"
)

// ArtifactStore defines the interface for persisting the two snapshots of
// a generated artifact. Snapshots are write-once: the draft is always
// written before the final, and a regeneration mints a new artifact ID
// rather than overwriting.
type ArtifactStore interface {
	// SaveDraft persists the pre-normalization snapshot.
	// Returns ErrSnapshotExists if a draft was already written for this artifact.
	SaveDraft(ctx context.Context, artifact domain.Artifact, html string) error

	// SaveFinal persists the post-normalization snapshot.
	// Returns ErrSnapshotExists if a final was already written for this artifact.
	SaveFinal(ctx context.Context, artifact domain.Artifact, html string) error

	// GetDraft retrieves the draft snapshot.
	// Returns ErrArtifactNotFound if it was never written.
	GetDraft(ctx context.Context, artifact domain.Artifact) (string, error)

	// GetFinal retrieves the final snapshot.
	// Returns ErrArtifactNotFound if it was never written.
	GetFinal(ctx context.Context, artifact domain.Artifact) (string, error)
}

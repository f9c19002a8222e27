package artifactfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/store"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestFileStoreSaveAndLoadSnapshots(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	artifact, err := domain.NewArtifact(domain.GuestOwnerKey("session-1"))
	require.NoError(t, err)

	require.NoError(t, s.SaveDraft(ctx, artifact, "<html>draft</html>"))
	require.NoError(t, s.SaveFinal(ctx, artifact, "<html>final</html>"))

	draft, err := s.GetDraft(ctx, artifact)
	require.NoError(t, err)
	assert.Equal(t, "<html>draft</html>", draft)

	final, err := s.GetFinal(ctx, artifact)
	require.NoError(t, err)
	assert.Equal(t, "<html>final</html>", final)
}

func TestFileStoreSnapshotsAreWriteOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	artifact, err := domain.NewArtifact(domain.UserOwnerKey("7"))
	require.NoError(t, err)

	require.NoError(t, s.SaveDraft(ctx, artifact, "first"))

	err = s.SaveDraft(ctx, artifact, "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrSnapshotExists)

	// The original content must be untouched.
	draft, err := s.GetDraft(ctx, artifact)
	require.NoError(t, err)
	assert.Equal(t, "first", draft)
}

func TestFileStoreMissingSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	artifact, err := domain.NewArtifact(domain.GuestOwnerKey("nobody"))
	require.NoError(t, err)

	_, err = s.GetFinal(ctx, artifact)
	assert.ErrorIs(t, err, store.ErrArtifactNotFound)
}

func TestFileStoreRejectsInvalidArtifact(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	err := s.SaveDraft(ctx, domain.Artifact{}, "html")
	assert.ErrorIs(t, err, domain.ErrEmptyOwnerKey)
}

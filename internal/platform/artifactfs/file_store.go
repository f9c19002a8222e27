// Package artifactfs provides the filesystem implementation of the
// artifact snapshot store. Each artifact occupies its own directory under
// <base>/<ownerKey>/<artifactID>/ holding draft.html and final.html.
package artifactfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/store"
)

// FileStore implements the store.ArtifactStore interface on the local
// filesystem. Snapshots are write-once: an existing snapshot file is
// never overwritten because every generation run mints a fresh artifact
// ID.
type FileStore struct {
	basePath string
	logger   *slog.Logger
}

// NewFileStore creates a filesystem-backed artifact store rooted at
// basePath, creating the root directory if needed.
// If logger is nil, a default logger will be used.
func NewFileStore(basePath string, logger *slog.Logger) (*FileStore, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create artifact root: %w", err)
	}

	return &FileStore{
		basePath: basePath,
		logger:   logger.With(slog.String("component", "artifact_store")),
	}, nil
}

// Ensure FileStore implements store.ArtifactStore interface
var _ store.ArtifactStore = (*FileStore)(nil)

// SaveDraft implements store.ArtifactStore.SaveDraft
func (s *FileStore) SaveDraft(ctx context.Context, artifact domain.Artifact, html string) error {
	return s.save(ctx, artifact, domain.SnapshotDraft, html)
}

// SaveFinal implements store.ArtifactStore.SaveFinal
func (s *FileStore) SaveFinal(ctx context.Context, artifact domain.Artifact, html string) error {
	return s.save(ctx, artifact, domain.SnapshotFinal, html)
}

// GetDraft implements store.ArtifactStore.GetDraft
func (s *FileStore) GetDraft(ctx context.Context, artifact domain.Artifact) (string, error) {
	return s.load(artifact, domain.SnapshotDraft)
}

// GetFinal implements store.ArtifactStore.GetFinal
func (s *FileStore) GetFinal(ctx context.Context, artifact domain.Artifact) (string, error) {
	return s.load(artifact, domain.SnapshotFinal)
}

func (s *FileStore) save(ctx context.Context, artifact domain.Artifact, snapshot domain.Snapshot, html string) error {
	if err := artifact.Validate(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.artifactDir(artifact)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(dir, string(snapshot)+".html")

	// O_EXCL enforces the write-once contract at the filesystem level.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", store.ErrSnapshotExists, path)
		}
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	_, writeErr := f.WriteString(html)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write snapshot: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close snapshot file: %w", closeErr)
	}

	s.logger.Debug("snapshot written",
		slog.String("owner", artifact.OwnerKey),
		slog.String("artifact_id", artifact.ID.String()),
		slog.String("snapshot", string(snapshot)),
		slog.Int("bytes", len(html)))

	return nil
}

func (s *FileStore) load(artifact domain.Artifact, snapshot domain.Snapshot) (string, error) {
	if err := artifact.Validate(); err != nil {
		return "", err
	}

	path := filepath.Join(s.artifactDir(artifact), string(snapshot)+".html")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", store.ErrArtifactNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}

	return string(data), nil
}

// artifactDir resolves the directory for one artifact. The owner key's
// colon is replaced so keys like "user:42" stay a single path element on
// every platform.
func (s *FileStore) artifactDir(artifact domain.Artifact) string {
	owner := strings.ReplaceAll(artifact.OwnerKey, ":", "_")
	return filepath.Join(s.basePath, owner, artifact.ID.String())
}

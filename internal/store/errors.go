package store

import "errors"

// Common store errors used across all store implementations.
var (
	// ErrAccountNotFound is returned when the requested credit account
	// does not exist in the durable tier.
	ErrAccountNotFound = errors.New("credit account not found")

	// ErrCacheMiss is returned by cache-tier operations when the key is
	// absent or expired. Callers fall back to the durable tier.
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached. For the durable tier this is fatal to the calling
	// operation; for the cache tier it is always degradable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrArtifactNotFound is returned when a requested artifact snapshot
	// does not exist.
	ErrArtifactNotFound = errors.New("artifact snapshot not found")

	// ErrSnapshotExists is returned when a write would overwrite an
	// existing artifact snapshot. Snapshots are write-once.
	ErrSnapshotExists = errors.New("artifact snapshot already written")
)

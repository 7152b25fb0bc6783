package repository

import "context"

// SnapshotStore persists whole-cache snapshots by name.
// Implementations should be provided by the infrastructure layer (e.g., local files, Redis, MinIO).
type SnapshotStore interface {
	// Load returns the last saved snapshot.
	// Returns ErrSnapshotNotFound if nothing was saved under name.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the snapshot stored under name.
	// A failed Save must leave the previous snapshot intact.
	Save(ctx context.Context, name string, data []byte) error
}

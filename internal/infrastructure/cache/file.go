package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
)

const (
	snapshotFileExt = ".json"
	lockRetryDelay  = 10 * time.Millisecond
)

// FileSnapshotStore keeps each snapshot in <dir>/<name>.json.
// Writes go to a uniquely named temp file that is renamed over the snapshot,
// under an advisory file lock shared with other processes using the same dir.
type FileSnapshotStore struct {
	dir string
}

// NewFileSnapshotStore creates the directory if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

// Path returns the snapshot file path for name.
func (s *FileSnapshotStore) Path(name string) string {
	return filepath.Join(s.dir, name+snapshotFileExt)
}

// Load reads the snapshot file for name.
func (s *FileSnapshotStore) Load(ctx context.Context, name string) ([]byte, error) {
	path := s.Path(name)

	lock := flock.New(path + ".lock")
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock snapshot: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock snapshot %s: not acquired", name)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return data, nil
}

// Save atomically replaces the snapshot file for name.
func (s *FileSnapshotStore) Save(ctx context.Context, name string, data []byte) error {
	path := s.Path(name)

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock snapshot: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock snapshot %s: not acquired", name)
	}
	defer lock.Unlock()

	tmpPath := path + "." + uuid.NewString() + ".tmp"
	if err := writeSynced(tmpPath, data); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var _ repository.SnapshotStore = (*FileSnapshotStore)(nil)

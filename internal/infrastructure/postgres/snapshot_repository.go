package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotRepository implements repository.SnapshotStore using PostgreSQL.
// Each cache snapshot is one row of the cache_snapshots table.
type SnapshotRepository struct {
	db  DBTX
	now func() time.Time
}

// NewSnapshotRepository creates a new SnapshotRepository instance.
func NewSnapshotRepository(db DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

// EnsureSchema creates the snapshot table if it does not exist.
// data is BYTEA so a snapshot loads back byte for byte.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS cache_snapshots (
			name       TEXT PRIMARY KEY,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create cache_snapshots table: %w", err)
	}
	return nil
}

// Load retrieves the snapshot stored under name.
func (r *SnapshotRepository) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `
		SELECT data
		FROM cache_snapshots
		WHERE name = $1
	`

	var data []byte
	if err := r.db.QueryRow(ctx, query, name).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

// Save upserts the snapshot stored under name.
func (r *SnapshotRepository) Save(ctx context.Context, name string, data []byte) error {
	const query = `
		INSERT INTO cache_snapshots (name, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, name, data, r.now()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Compile-time verification that SnapshotRepository implements repository.SnapshotStore.
var _ repository.SnapshotStore = (*SnapshotRepository)(nil)

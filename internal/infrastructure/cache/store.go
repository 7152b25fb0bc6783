package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/metrics"
)

// Store is a write-once key/value cache mirrored in memory and persisted as a
// single JSON object snapshot after every insert.
//
// Reads may run concurrently. Inserts are serialized by a per-store lock that is
// held for the in-memory insert plus the snapshot flush, so concurrent writers
// never overwrite each other's snapshot.
type Store[V any] struct {
	name      string
	snapshots repository.SnapshotStore
	logger    *slog.Logger

	mu      sync.RWMutex
	entries map[string]V
}

// NewStore creates an empty store persisted under name.
// Call Load once at startup to restore the previous snapshot.
func NewStore[V any](name string, snapshots repository.SnapshotStore, logger *slog.Logger) *Store[V] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[V]{
		name:      name,
		snapshots: snapshots,
		logger:    logger.With(slog.String("component", "cache"), slog.String("cache", name)),
		entries:   make(map[string]V),
	}
}

// Name returns the snapshot name of the store.
func (s *Store[V]) Name() string {
	return s.name
}

// Load restores the store from its snapshot.
// A missing, unreadable or corrupt snapshot leaves the store empty; it is never fatal.
func (s *Store[V]) Load(ctx context.Context) {
	data, err := s.snapshots.Load(ctx, s.name)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			s.logger.Info("no cache snapshot found, starting empty")
			return
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpLoad, metrics.CacheStatusError, s.name).Inc()
		s.logger.Warn("failed to read cache snapshot, starting empty", slog.Any("error", err))
		return
	}

	entries := make(map[string]V)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpLoad, metrics.CacheStatusError, s.name).Inc()
			s.logger.Warn("corrupt cache snapshot, starting empty", slog.Any("error", err))
			return
		}
	}
	if entries == nil {
		// A snapshot of "null" decodes to a nil map.
		entries = make(map[string]V)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpLoad, metrics.CacheStatusSuccess, s.name).Inc()
	metrics.CacheEntries.WithLabelValues(s.name).Set(float64(len(entries)))
	s.logger.Info("loaded cache snapshot", slog.Int("entry_count", len(entries)))
}

// Get returns the entry stored under key.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, s.name).Inc()
	} else {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, s.name).Inc()
	}
	return v, ok
}

// Contains reports whether key is present without touching hit/miss metrics.
func (s *Store[V]) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Put inserts v under key and persists the snapshot.
// An existing key is left untouched. If persisting fails the insert is undone.
func (s *Store[V]) Put(ctx context.Context, key string, v V) error {
	return s.PutAll(ctx, map[string]V{key: v})
}

// PutAll inserts every absent key of items and persists the snapshot once.
// Either all new keys are persisted or none are kept.
func (s *Store[V]) PutAll(ctx context.Context, items map[string]V) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]string, 0, len(items))
	for key, v := range items {
		if _, exists := s.entries[key]; exists {
			continue
		}
		s.entries[key] = v
		added = append(added, key)
	}
	if len(added) == 0 {
		return nil
	}

	if err := s.flushLocked(ctx); err != nil {
		for _, key := range added {
			delete(s.entries, key)
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, s.name).Inc()
		return fmt.Errorf("persist %s cache: %w", s.name, err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, s.name).Add(float64(len(added)))
	metrics.CacheEntries.WithLabelValues(s.name).Set(float64(len(s.entries)))
	s.logger.Debug("cache entries stored",
		slog.Int("added", len(added)),
		slog.Int("entry_count", len(s.entries)),
	)
	return nil
}

// Len returns the number of entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// flushLocked writes the full snapshot. Caller must hold the write lock.
func (s *Store[V]) flushLocked(ctx context.Context) error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.snapshots.Save(ctx, s.name, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

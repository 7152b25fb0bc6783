package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
)

const (
	// snapshotKeyPrefix is the prefix for snapshot keys in Redis.
	snapshotKeyPrefix = "snapshot:"
)

// RedisSnapshotStore implements repository.SnapshotStore using Redis as the backing store.
// Each snapshot is a single string value without expiry.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore creates a new Redis-backed snapshot store.
func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: client,
	}
}

// Load retrieves a snapshot from Redis.
// Returns repository.ErrSnapshotNotFound when the key does not exist.
func (s *RedisSnapshotStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.buildKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Save stores a snapshot in Redis, replacing the previous one.
func (s *RedisSnapshotStore) Save(ctx context.Context, name string, data []byte) error {
	if err := s.client.Set(ctx, s.buildKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// buildKey constructs the Redis key for a snapshot.
func (s *RedisSnapshotStore) buildKey(name string) string {
	return snapshotKeyPrefix + name
}

var _ repository.SnapshotStore = (*RedisSnapshotStore)(nil)

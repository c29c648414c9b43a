// Package redis caches progress snapshots in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

const snapshotPrefix = "mindgrowth:snapshot:"

// NewClient parses a redis:// URL and checks the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// SnapshotCache stores snapshots as JSON under mindgrowth:snapshot:<userID>.
type SnapshotCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSnapshotCache creates a cache; a zero ttl keeps keys until they are overwritten.
func NewSnapshotCache(client redis.Cmdable, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// SnapshotKey returns the Redis key of a user snapshot.
func SnapshotKey(userID int64) string {
	return snapshotPrefix + strconv.FormatInt(userID, 10)
}

// Get returns the cached snapshot or repository.ErrCacheMiss.
func (c *SnapshotCache) Get(ctx context.Context, userID int64) (entities.Snapshot, error) {
	raw, err := c.client.Get(ctx, SnapshotKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entities.Snapshot{}, repository.ErrCacheMiss
		}
		return entities.Snapshot{}, fmt.Errorf("cache get: %w", err)
	}

	var s entities.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return entities.Snapshot{}, fmt.Errorf("cache decode: %w", err)
	}
	return s, nil
}

// Set writes the snapshot with the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, userID int64, s entities.Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, SnapshotKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete drops the cached snapshot.
func (c *SnapshotCache) Delete(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, SnapshotKey(userID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

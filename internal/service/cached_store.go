package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

// CachedSnapshotStore reads through and writes through a cache in front of the durable store.
// Cache failures are logged and never returned.
type CachedSnapshotStore struct {
	durable SnapshotStore
	cache   SnapshotCache
	logger  *zap.Logger
}

func NewCachedSnapshotStore(durable SnapshotStore, cache SnapshotCache, logger *zap.Logger) *CachedSnapshotStore {
	return &CachedSnapshotStore{durable: durable, cache: cache, logger: logger}
}

func (s *CachedSnapshotStore) Get(ctx context.Context, userID int64) (entities.Snapshot, error) {
	snap, err := s.cache.Get(ctx, userID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("snapshot cache read failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	snap, err = s.durable.Get(ctx, userID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	if err := s.cache.Set(ctx, userID, snap); err != nil {
		s.logger.Warn("snapshot cache fill failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return snap, nil
}

func (s *CachedSnapshotStore) Put(ctx context.Context, userID int64, snap entities.Snapshot) error {
	if err := s.durable.Put(ctx, userID, snap); err != nil {
		// A stale cached copy must not outlive a failed write.
		if cerr := s.cache.Delete(ctx, userID); cerr != nil {
			s.logger.Warn("snapshot cache invalidation failed", zap.Int64("user_id", userID), zap.Error(cerr))
		}
		return err
	}

	if err := s.cache.Set(ctx, userID, snap); err != nil {
		s.logger.Warn("snapshot cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *CachedSnapshotStore) Delete(ctx context.Context, userID int64) error {
	if err := s.durable.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("snapshot cache delete failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

// MemorySnapshotStore keeps snapshots in process memory.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[int64]entities.Snapshot
}

// NewMemorySnapshotStore creates an empty store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots: make(map[int64]entities.Snapshot),
	}
}

// Get returns a copy of the snapshot or repository.ErrSnapshotNotFound.
func (s *MemorySnapshotStore) Get(_ context.Context, userID int64) (entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[userID]
	if !ok {
		return entities.Snapshot{}, repository.ErrSnapshotNotFound
	}
	return snap.Clone(), nil
}

// Put stores a copy of the snapshot.
func (s *MemorySnapshotStore) Put(_ context.Context, userID int64, snap entities.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = snap.Clone()
	return nil
}

// Delete removes the snapshot of a user.
func (s *MemorySnapshotStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
	return nil
}

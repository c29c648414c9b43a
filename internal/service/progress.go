package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

// TrackLookup resolves the learning track used for a new snapshot.
type TrackLookup interface {
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
}

// ProgressService runs events through the engine and persists the resulting snapshots.
// Events of one user are applied one at a time.
type ProgressService struct {
	engine *gamification.Engine
	store  SnapshotStore
	users  TrackLookup
	logger *zap.Logger
	locks  *userLocks

	mu      sync.Mutex
	pending map[int64]entities.Snapshot // computed but not yet persisted
}

// NewProgressService creates the service. users may be nil, in which case new
// snapshots start on the teen track.
func NewProgressService(engine *gamification.Engine, store SnapshotStore, users TrackLookup, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		engine:  engine,
		store:   store,
		users:   users,
		logger:  logger,
		locks:   newUserLocks(),
		pending: make(map[int64]entities.Snapshot),
	}
}

// Record applies one event to the user's snapshot.
//
// A *gamification.ValidationError leaves everything untouched. When the snapshot cannot be
// written, the outcome is still returned together with a *gamification.PersistenceError and
// the new snapshot is kept in memory as the base of the next event until a write succeeds.
func (s *ProgressService) Record(ctx context.Context, userID int64, ev gamification.Event) (*gamification.Outcome, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Process(snap, ev)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, userID, out.Snapshot); err != nil {
		s.setPending(userID, out.Snapshot)
		s.logger.Warn("snapshot kept in memory after failed write",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return &out, &gamification.PersistenceError{Op: "put", UserID: userID, Err: err}
	}
	s.dropPending(userID)

	if len(out.NewBadges) > 0 || out.LeveledUp() {
		s.logger.Info("progress milestone",
			zap.Int64("user_id", userID),
			zap.Int("level", out.Level()),
			zap.Int("new_badges", len(out.NewBadges)),
		)
	}

	return &out, nil
}

// Snapshot returns the current state of the user, or a fresh one when nothing is stored.
func (s *ProgressService) Snapshot(ctx context.Context, userID int64) (entities.Snapshot, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.load(ctx, userID)
}

// Reset deletes every trace of the user's progress.
func (s *ProgressService) Reset(ctx context.Context, userID int64) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.store.Delete(ctx, userID); err != nil {
		return &gamification.PersistenceError{Op: "delete", UserID: userID, Err: err}
	}
	s.dropPending(userID)

	s.logger.Info("progress reset", zap.Int64("user_id", userID))
	return nil
}

// Pending reports whether the user has a snapshot that is not persisted yet.
func (s *ProgressService) Pending(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	return ok
}

func (s *ProgressService) load(ctx context.Context, userID int64) (entities.Snapshot, error) {
	s.mu.Lock()
	snap, ok := s.pending[userID]
	s.mu.Unlock()
	if ok {
		return snap.Clone(), nil
	}

	snap, err := s.store.Get(ctx, userID)
	switch {
	case err == nil:
		return snap, nil
	case errors.Is(err, repository.ErrSnapshotNotFound):
		return s.engine.NewSnapshot(userID, s.trackOf(ctx, userID)), nil
	default:
		return entities.Snapshot{}, &gamification.PersistenceError{Op: "get", UserID: userID, Err: err}
	}
}

func (s *ProgressService) trackOf(ctx context.Context, userID int64) entities.Track {
	if s.users == nil {
		return entities.TrackTeen
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("track lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return entities.TrackTeen
	}
	return user.Track
}

func (s *ProgressService) setPending(userID int64, snap entities.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = snap.Clone()
}

func (s *ProgressService) dropPending(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}

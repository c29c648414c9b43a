package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/catalog"
	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
	"github.com/aliskhannn/mindgrowth-bot/internal/storage"
)

var errStoreDown = errors.New("store is down")

const testLessonsJSON = `{
  "modules": [
    {"id": "m1", "title": "Emotions", "track": "teen", "lessons": [
      {"id": "m1-l1", "title": "Intro", "minutes": 5, "quiz": {"questions": [
        {"text": "q1", "options": ["a", "b"], "answer": 1},
        {"text": "q2", "options": ["a", "b"], "answer": 0}
      ]}},
      {"id": "m1-l2", "title": "Practice", "minutes": 3}
    ]}
  ]
}`

func testCatalog(t *testing.T) *catalog.LessonCatalog {
	t.Helper()
	c, err := catalog.ParseLessons([]byte(testLessonsJSON))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func testEngine(t *testing.T) *gamification.Engine {
	t.Helper()
	badges := []entities.Badge{
		{ID: "first_steps", Criteria: entities.Criteria{Kind: entities.CriteriaThreshold, Field: "lessons_completed", Value: 1}},
		{ID: "perfectionist", Criteria: entities.Criteria{Kind: entities.CriteriaCustom, ID: "perfect_quiz"}},
	}
	return gamification.NewEngine(
		gamification.NewIngestor(testCatalog(t), nil),
		gamification.NewAggregator(gamification.DefaultRules(), time.UTC),
		gamification.NewEvaluator(badges, nil),
	)
}

// flakyStore is a memory store whose operations can be made to fail.
type flakyStore struct {
	*storage.MemorySnapshotStore

	mu       sync.Mutex
	failGet  bool
	failPut  bool
	puts     int
	failures int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemorySnapshotStore: storage.NewMemorySnapshotStore()}
}

func (s *flakyStore) setFailPut(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = v
}

func (s *flakyStore) Get(ctx context.Context, userID int64) (entities.Snapshot, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return entities.Snapshot{}, errStoreDown
	}
	return s.MemorySnapshotStore.Get(ctx, userID)
}

func (s *flakyStore) Put(ctx context.Context, userID int64, snap entities.Snapshot) error {
	s.mu.Lock()
	s.puts++
	fail := s.failPut
	if fail {
		s.failures++
	}
	s.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return s.MemorySnapshotStore.Put(ctx, userID, snap)
}

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	mu          sync.Mutex
	users       map[int64]*entities.User
	deactivated []int64
	listErr     error
}

func newFakeUsers(users ...*entities.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*entities.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Save(_ context.Context, user *entities.User) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[user.ID]
	if ok {
		existing.ChatID = user.ChatID
		existing.IsActive = true
		return false, nil
	}
	u := *user
	f.users[user.ID] = &u
	return true, nil
}

func (f *fakeUsers) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) SetTrack(_ context.Context, userID int64, track entities.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Track = track
	return nil
}

func (f *fakeUsers) Deactivate(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.IsActive = false
	}
	f.deactivated = append(f.deactivated, userID)
	return nil
}

func (f *fakeUsers) ListActive(_ context.Context) ([]entities.ReminderTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []entities.ReminderTarget
	for _, u := range f.users {
		if u.IsActive {
			out = append(out, entities.ReminderTarget{UserID: u.ID, ChatID: u.ChatID, Track: u.Track})
		}
	}
	return out, nil
}

func newTestProgress(t *testing.T, store SnapshotStore, users TrackLookup) *ProgressService {
	t.Helper()
	return NewProgressService(testEngine(t), store, users, zap.NewNop())
}

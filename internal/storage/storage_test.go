package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

func TestMemorySnapshotStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)

	s := entities.NewSnapshot(1, entities.TrackTeen, 2)
	s.Progress.QuizScores["m1-l1"] = 70
	require.NoError(t, store.Put(ctx, 1, s))

	s.Progress.QuizScores["m1-l1"] = 0
	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Progress.QuizScores["m1-l1"], "stored copy must not alias the caller")

	got.Gamification.XP = 999
	again, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, again.Gamification.XP)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}

func TestSessions_Expire(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions[string](10 * time.Minute)
	s.now = func() time.Time { return now }

	s.Store(1, "quiz")
	s.Store(2, "checkin")

	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "quiz", v)

	now = now.Add(5 * time.Minute)
	s.Store(2, "checkin, step 2")

	now = now.Add(6 * time.Minute)
	_, ok = s.Get(1)
	assert.False(t, ok)

	v, ok = s.Get(2)
	require.True(t, ok)
	assert.Equal(t, "checkin, step 2", v)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, s.Sweep())

	s.Store(3, "x")
	s.Delete(3)
	_, ok = s.Get(3)
	assert.False(t, ok)
}

func TestReminderStorage(t *testing.T) {
	s := NewReminderStorage()

	_, ok := s.Swap(1, ReminderMessage{ChatID: 10, MessageID: 100})
	assert.False(t, ok)

	prev, ok := s.Swap(1, ReminderMessage{ChatID: 10, MessageID: 101})
	require.True(t, ok)
	assert.Equal(t, 100, prev.MessageID)

	msg, ok := s.Take(1)
	require.True(t, ok)
	assert.Equal(t, 101, msg.MessageID)

	_, ok = s.Take(1)
	assert.False(t, ok)
}

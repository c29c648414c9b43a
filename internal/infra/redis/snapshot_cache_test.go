package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

func testServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "mindgrowth:snapshot:42", SnapshotKey(42))
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	mr, client := testServer(t)
	ctx := context.Background()
	cache := NewSnapshotCache(client, time.Minute)

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	s := entities.NewSnapshot(7, entities.TrackTeen, 2)
	s.Gamification.XP = 300
	s.Progress.MarkCompleted("m1-l1")
	require.NoError(t, cache.Set(ctx, 7, s))

	assert.True(t, mr.Exists("mindgrowth:snapshot:7"))
	assert.Equal(t, time.Minute, mr.TTL("mindgrowth:snapshot:7"))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, cache.Delete(ctx, 7))
	_, err = cache.Get(ctx, 7)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestSnapshotCache_TTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		wantTTL time.Duration
		expires bool
	}{
		{"expires after ttl", 30 * time.Second, 30 * time.Second, true},
		{"zero ttl keeps key", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr, client := testServer(t)
			ctx := context.Background()
			cache := NewSnapshotCache(client, tt.ttl)

			require.NoError(t, cache.Set(ctx, 1, entities.NewSnapshot(1, entities.TrackParent, 2)))
			assert.Equal(t, tt.wantTTL, mr.TTL(SnapshotKey(1)))

			mr.FastForward(time.Minute)

			_, err := cache.Get(ctx, 1)
			if tt.expires {
				assert.ErrorIs(t, err, repository.ErrCacheMiss)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSnapshotCache_Errors(t *testing.T) {
	mr, client := testServer(t)
	ctx := context.Background()
	cache := NewSnapshotCache(client, time.Minute)

	require.NoError(t, mr.Set(SnapshotKey(3), "{"))
	_, err := cache.Get(ctx, 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)

	mr.SetError("ERR injected failure")
	_, err = cache.Get(ctx, 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)
	assert.Error(t, cache.Set(ctx, 3, entities.NewSnapshot(3, entities.TrackTeen, 2)))
	assert.Error(t, cache.Delete(ctx, 3))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = NewClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}

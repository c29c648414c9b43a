package storage

import (
	"sync"
	"time"
)

type session[T any] struct {
	value     T
	expiresAt time.Time
}

// Sessions keeps one short-lived conversation state per user, such as a running
// quiz or an unfinished check-in.
type Sessions[T any] struct {
	mu    sync.Mutex
	items map[int64]session[T]
	ttl   time.Duration
	now   func() time.Time
}

// NewSessions creates a store whose entries expire after ttl of inactivity.
func NewSessions[T any](ttl time.Duration) *Sessions[T] {
	return &Sessions[T]{
		items: make(map[int64]session[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Store saves the state of a user, replacing the previous one.
func (s *Sessions[T]) Store(userID int64, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = session[T]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the state of a user if it has not expired.
func (s *Sessions[T]) Get(userID int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[userID]
	if !ok || !s.now().Before(item.expiresAt) {
		delete(s.items, userID)
		var zero T
		return zero, false
	}
	return item.value, true
}

// Delete drops the state of a user.
func (s *Sessions[T]) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
}

// Sweep removes every expired entry and returns how many were removed.
func (s *Sessions[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, item := range s.items {
		if !now.Before(item.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

package storage

import (
	"sync"
	"time"
)

// ReminderMessage points at the last reminder sent to a chat.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// ReminderStorage remembers the last reminder per user so it can be removed
// when a newer one is sent or the user checks in.
type ReminderStorage struct {
	mu       sync.Mutex
	messages map[int64]ReminderMessage
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		messages: make(map[int64]ReminderMessage),
	}
}

// Swap records the new reminder and returns the previous one, if any.
func (s *ReminderStorage) Swap(userID int64, msg ReminderMessage) (ReminderMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.messages[userID]
	s.messages[userID] = msg
	return prev, ok
}

// Take removes and returns the reminder of a user.
func (s *ReminderStorage) Take(userID int64) (ReminderMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[userID]
	delete(s.messages, userID)
	return msg, ok
}

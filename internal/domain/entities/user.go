package entities

import "time"

// Track identifies a learning track of the app.
type Track string

const (
	TrackTeen   Track = "teen"   // main track for teenagers
	TrackParent Track = "parent" // parent-facing variant
)

// Valid reports whether t is a known track.
func (t Track) Valid() bool {
	return t == TrackTeen || t == TrackParent
}

// User represents a Mini App user.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	Track     Track
	IsActive  bool
	CreatedAt time.Time
}

func NewUser(id, chatID int64, track Track) *User {
	if !track.Valid() {
		track = TrackTeen
	}
	return &User{
		ID:        id,
		ChatID:    chatID,
		Track:     track,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

package entities

import (
	"slices"
	"time"
)

// Snapshot is the complete persisted state of one user: raw progress plus derived gamification.
type Snapshot struct {
	Progress     UserProgress         `json:"progress"`
	Gamification GamificationProgress `json:"gamification"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewSnapshot creates the state of a user on first interaction.
func NewSnapshot(userID int64, track Track, maxFreezes int) Snapshot {
	return Snapshot{
		Progress: NewUserProgress(userID, track),
		Gamification: GamificationProgress{
			MaxFreezes: maxFreezes,
			Badges:     []UserBadge{},
		},
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Progress = s.Progress.Clone()
	c.Gamification.Badges = slices.Clone(s.Gamification.Badges)
	return c
}

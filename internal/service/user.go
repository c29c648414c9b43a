package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// ProgressResetter drops the progress of a user.
type ProgressResetter interface {
	Reset(ctx context.Context, userID int64) error
}

type UserService struct {
	repository UserRepository
	progress   ProgressResetter
}

func NewUserService(repository UserRepository, progress ProgressResetter) *UserService {
	return &UserService{repository: repository, progress: progress}
}

// EnsureUser registers the user on first contact and re-activates returning users.
// It reports whether the user is new.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, track entities.Track) (bool, error) {
	created, err := s.repository.Save(ctx, entities.NewUser(userID, chatID, track))
	if err != nil {
		return false, fmt.Errorf("ensure user: %w", err)
	}
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	return s.repository.GetByID(ctx, userID)
}

// SwitchTrack moves the user to another track. Progress belongs to a track, so it starts over.
func (s *UserService) SwitchTrack(ctx context.Context, userID int64, track entities.Track) error {
	if !track.Valid() {
		return fmt.Errorf("unknown track %q", track)
	}
	if err := s.repository.SetTrack(ctx, userID, track); err != nil {
		return err
	}
	return s.progress.Reset(ctx, userID)
}

// Deactivate stops reminders for the user.
func (s *UserService) Deactivate(ctx context.Context, userID int64) error {
	return s.repository.Deactivate(ctx, userID)
}

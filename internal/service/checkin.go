package service

import (
	"context"
	"errors"
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

var ErrNoActiveCheckIn = errors.New("no active check-in")

// CheckInDrafts stores unfinished check-ins.
type CheckInDrafts interface {
	Store(userID int64, d *entities.CheckInDraft)
	Get(userID int64) (*entities.CheckInDraft, bool)
	Delete(userID int64)
}

// CheckInService drives the mood, anxiety, energy and sleep questions of a check-in.
type CheckInService struct {
	drafts   CheckInDrafts
	progress Recorder
	now      func() time.Time
}

func NewCheckInService(drafts CheckInDrafts, progress Recorder) *CheckInService {
	return &CheckInService{drafts: drafts, progress: progress, now: time.Now}
}

// Start opens an empty draft.
func (s *CheckInService) Start(userID int64) *entities.CheckInDraft {
	d := &entities.CheckInDraft{UserID: userID}
	s.drafts.Store(userID, d)
	return d
}

// Current returns the unfinished draft of the user.
func (s *CheckInService) Current(userID int64) (*entities.CheckInDraft, error) {
	d, ok := s.drafts.Get(userID)
	if !ok {
		return nil, ErrNoActiveCheckIn
	}
	return d, nil
}

// Answer stores the value for the given step. Answers to a step other than the current
// one are ignored, so a repeated button press does not skip a question. After the last
// step the check-in is submitted and its outcome returned.
func (s *CheckInService) Answer(ctx context.Context, userID int64, step entities.CheckInStep, value float64) (*entities.CheckInDraft, *gamification.Outcome, error) {
	d, ok := s.drafts.Get(userID)
	if !ok {
		return nil, nil, ErrNoActiveCheckIn
	}
	if d.Step != step {
		return d, nil, nil
	}

	d.Set(value)
	if d.Step != entities.StepDone {
		s.drafts.Store(userID, d)
		return d, nil, nil
	}
	s.drafts.Delete(userID)

	out, err := s.progress.Record(ctx, userID, gamification.CheckInSubmitted{
		Mood:       d.Mood,
		Anxiety:    d.Anxiety,
		Energy:     d.Energy,
		SleepHours: d.SleepHours,
		At:         s.now(),
	})
	return d, out, err
}

// Cancel drops the draft.
func (s *CheckInService) Cancel(userID int64) {
	s.drafts.Delete(userID)
}

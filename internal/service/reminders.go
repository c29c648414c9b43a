package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// SnapshotReader reads the current snapshot of a user.
type SnapshotReader interface {
	Snapshot(ctx context.Context, userID int64) (entities.Snapshot, error)
}

// ReminderTargets lists and deactivates reminder recipients.
type ReminderTargets interface {
	ListActive(ctx context.Context) ([]entities.ReminderTarget, error)
	Deactivate(ctx context.Context, userID int64) error
}

// ReminderConfig controls when and how reminders are sent.
type ReminderConfig struct {
	Schedule string // cron expression, e.g. "0 18 * * *"
	Location *time.Location
	Workers  int
}

// ReminderService nudges users that have not checked in today.
type ReminderService struct {
	users     ReminderTargets
	snapshots SnapshotReader
	notifier  ReminderNotifier
	cfg       ReminderConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(users ReminderTargets, snapshots SnapshotReader, cfg ReminderConfig, logger *zap.Logger) *ReminderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &ReminderService{
		users:     users,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Run schedules the reminder job and blocks until ctx is done.
func (s *ReminderService) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.cfg.Location))

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		sent, err := s.SendDue(ctx)
		if err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
			return
		}
		s.logger.Info("reminders processed", zap.Int("sent", sent))
	})
	if err != nil {
		return fmt.Errorf("add reminder job %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.logger.Info("reminder scheduler started", zap.String("schedule", s.cfg.Schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
	return nil
}

// SendDue sends one reminder to every active user without a check-in today and
// returns how many were sent. Failures for single users are logged and skipped.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("notifier not initialized")
	}

	targets, err := s.users.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminder targets: %w", err)
	}

	today := s.now()
	var sent atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, target := range targets {
		g.Go(func() error {
			ok, err := s.remind(gctx, target, today)
			if err != nil {
				s.logger.Error("failed to send reminder",
					zap.Int64("user_id", target.UserID),
					zap.Error(err),
				)
				return nil
			}
			if ok {
				sent.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()
	return int(sent.Load()), ctx.Err()
}

func (s *ReminderService) remind(ctx context.Context, target entities.ReminderTarget, now time.Time) (bool, error) {
	snap, err := s.snapshots.Snapshot(ctx, target.UserID)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if checkedInOn(snap.Progress.CheckIns, now, s.cfg.Location) {
		return false, nil
	}

	g := snap.Gamification
	payload := entities.ReminderPayload{
		Streak:      g.Streak,
		FreezesLeft: g.FreezesLeft(),
		Level:       g.Level(),
		XP:          g.XP,
	}

	if err := s.notifier.SendReminder(ctx, target, payload); err != nil {
		if errors.Is(err, ErrRecipientGone) {
			s.logger.Info("deactivating unreachable user", zap.Int64("user_id", target.UserID))
			if derr := s.users.Deactivate(ctx, target.UserID); derr != nil {
				return false, fmt.Errorf("deactivate: %w", derr)
			}
			return false, nil
		}
		return false, fmt.Errorf("send notification: %w", err)
	}

	return true, nil
}

// checkedInOn reports whether any check-in falls on the calendar day of now in loc.
func checkedInOn(history []entities.CheckIn, now time.Time, loc *time.Location) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if entities.CalendarDaysBetween(history[i].Timestamp, now, loc) == 0 {
			return true
		}
	}
	return false
}

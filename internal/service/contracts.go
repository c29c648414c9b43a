package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// ErrRecipientGone is returned by a notifier when the user can no longer be reached,
// for example after blocking the bot.
var ErrRecipientGone = errors.New("recipient is gone")

// SnapshotStore is the key-value persistence of progress snapshots.
type SnapshotStore interface {
	Get(ctx context.Context, userID int64) (entities.Snapshot, error)
	Put(ctx context.Context, userID int64, s entities.Snapshot) error
	Delete(ctx context.Context, userID int64) error
}

// SnapshotCache is a best-effort copy of the snapshot store.
type SnapshotCache interface {
	Get(ctx context.Context, userID int64) (entities.Snapshot, error)
	Set(ctx context.Context, userID int64, s entities.Snapshot) error
	Delete(ctx context.Context, userID int64) error
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	SetTrack(ctx context.Context, userID int64, track entities.Track) error
	Deactivate(ctx context.Context, userID int64) error
	ListActive(ctx context.Context) ([]entities.ReminderTarget, error)
}

// LessonCatalog is the read side of the lesson catalog used by the quiz flow.
type LessonCatalog interface {
	Lesson(id string) (entities.Lesson, error)
	GradeQuiz(lessonID string, answers []int) (int, error)
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, target entities.ReminderTarget, payload entities.ReminderPayload) error
}

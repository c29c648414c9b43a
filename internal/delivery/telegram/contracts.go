package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
	"github.com/aliskhannn/mindgrowth-bot/internal/service"
	"github.com/aliskhannn/mindgrowth-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, track entities.Track) (bool, error)
	GetUser(ctx context.Context, userID int64) (*entities.User, error)
	SwitchTrack(ctx context.Context, userID int64, track entities.Track) error
}

type ProgressService interface {
	Record(ctx context.Context, userID int64, ev gamification.Event) (*gamification.Outcome, error)
	Snapshot(ctx context.Context, userID int64) (entities.Snapshot, error)
	Reset(ctx context.Context, userID int64) error
}

type QuizService interface {
	Start(userID int64, lessonID string) (*entities.QuizSession, entities.Lesson, error)
	Current(userID int64) (*entities.QuizSession, error)
	Answer(ctx context.Context, userID int64, lessonID string, option int) (*entities.QuizSession, *service.QuizResult, error)
	Cancel(userID int64)
}

type CheckInService interface {
	Start(userID int64) *entities.CheckInDraft
	Current(userID int64) (*entities.CheckInDraft, error)
	Answer(ctx context.Context, userID int64, step entities.CheckInStep, value float64) (*entities.CheckInDraft, *gamification.Outcome, error)
	Cancel(userID int64)
}

type LessonCatalog interface {
	Lesson(id string) (entities.Lesson, error)
	Modules() []entities.Module
}

type BadgeCatalog interface {
	All() []entities.Badge
	Badge(id string) (entities.Badge, bool)
}

// ReminderMessages tracks the last reminder sent to each user.
type ReminderMessages interface {
	Swap(userID int64, msg storage.ReminderMessage) (storage.ReminderMessage, bool)
	Take(userID int64) (storage.ReminderMessage, bool)
}

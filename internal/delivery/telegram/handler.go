// Package telegram is the chat front end: commands, the inline quiz, the check-in
// wizard and reminder delivery.
package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

type Handler struct {
	bot       BotAPI
	logger    *zap.Logger
	users     UserService
	progress  ProgressService
	quiz      QuizService
	checkin   CheckInService
	lessons   LessonCatalog
	badges    BadgeCatalog
	reminders ReminderMessages
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	users UserService,
	progress ProgressService,
	quiz QuizService,
	checkin CheckInService,
	lessons LessonCatalog,
	badges BadgeCatalog,
	reminders ReminderMessages,
) *Handler {
	return &Handler{
		bot:       bot,
		logger:    logger,
		users:     users,
		progress:  progress,
		quiz:      quiz,
		checkin:   checkin,
		lessons:   lessons,
		badges:    badges,
		reminders: reminders,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if _, err := h.users.EnsureUser(ctx, from.ID, chatID, entities.TrackTeen); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleText(from.ID, update.Message.Text))(ctx, chatID)
		return
	}

	args := strings.Fields(update.Message.CommandArguments())

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = h.handleHelp()
	case "progress":
		fn = h.handleProgress(from.ID)
	case "badges":
		fn = h.handleBadges(from.ID)
	case "lessons":
		fn = h.handleLessons(from.ID)
	case "done":
		fn = h.handleDone(from.ID, args)
	case "quiz":
		fn = h.handleQuiz(from.ID, args)
	case "practice":
		fn = h.handlePractice(from.ID, args)
	case "checkin":
		fn = h.handleCheckIn(from.ID)
	case "cancel":
		fn = h.handleCancel(from.ID)
	case "reset":
		fn = h.handleReset()
	default:
		fn = func(_ context.Context, chatID int64) error {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
	return sent, err
}

// answerCallback removes the loading indicator of a pressed button.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

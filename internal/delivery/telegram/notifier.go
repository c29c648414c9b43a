package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/service"
	"github.com/aliskhannn/mindgrowth-bot/internal/storage"
)

// Notifier delivers reminders. Only the latest reminder stays in the chat.
type Notifier struct {
	bot      BotAPI
	messages ReminderMessages
	logger   *zap.Logger
	now      func() time.Time
}

func NewNotifier(bot BotAPI, messages ReminderMessages, logger *zap.Logger) *Notifier {
	return &Notifier{
		bot:      bot,
		messages: messages,
		logger:   logger,
		now:      time.Now,
	}
}

// SendReminder sends the daily check-in reminder. It returns service.ErrRecipientGone
// when the user blocked the bot or the chat no longer exists.
func (n *Notifier) SendReminder(_ context.Context, target entities.ReminderTarget, payload entities.ReminderPayload) error {
	msg := newMessage(target.ChatID, buildReminderNotification(payload))
	msg.ReplyMarkup = buildReminderKeyboard()

	sent, err := n.bot.Send(msg)
	if err != nil {
		if isRecipientGone(err) {
			return fmt.Errorf("%w: %v", service.ErrRecipientGone, err)
		}
		return fmt.Errorf("send reminder: %w", err)
	}

	prev, ok := n.messages.Swap(target.UserID, storage.ReminderMessage{
		ChatID:    target.ChatID,
		MessageID: sent.MessageID,
		SentAt:    n.now(),
	})
	if ok {
		if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(prev.ChatID, prev.MessageID)); err != nil {
			n.logger.Debug("failed to delete previous reminder",
				zap.Int64("user_id", target.UserID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func isRecipientGone(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		var valErr tgbotapi.Error
		if !errors.As(err, &valErr) {
			return false
		}
		apiErr = &valErr
	}

	switch apiErr.Code {
	case http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return strings.Contains(strings.ToLower(apiErr.Message), "chat not found")
	default:
		return false
	}
}

package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/catalog"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
	"github.com/aliskhannn/mindgrowth-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		text := userMessage(err)
		if text == msgInternalError || errors.Is(err, gamification.ErrPersistence) {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		} else {
			h.logger.Debug("request rejected",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
		_ = h.send(newPlainMessage(chatID, text))
		return nil
	}
}

// userMessage turns an error into the text shown in the chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, catalog.ErrLessonNotFound):
		return msgLessonNotFound
	case errors.Is(err, service.ErrNoQuiz):
		return msgNoQuiz
	case errors.Is(err, service.ErrNoActiveQuiz):
		return msgQuizExpired
	case errors.Is(err, service.ErrNoActiveCheckIn):
		return msgCheckInExpired
	case errors.Is(err, gamification.ErrValidation):
		return msgInvalidInput
	case errors.Is(err, gamification.ErrPersistence):
		return msgStorageUnavailable
	default:
		return msgInternalError
	}
}

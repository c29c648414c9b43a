package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newMessage(chatID, welcomeMessage())
		msg.ReplyMarkup = buildTrackKeyboard()
		return h.send(msg)
	}
}

// handleOnboardingCallback stores the chosen track. Switching to another track starts
// the progress over, so the current track is kept when it is chosen again.
func (h *Handler) handleOnboardingCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if data.param(0) != onboardingTrack {
		return "", nil, nil
	}
	track := entities.Track(data.param(1))
	if !track.Valid() {
		return "", nil, nil
	}

	userID := cb.From.ID
	created, err := h.users.EnsureUser(ctx, userID, cb.Message.Chat.ID, track)
	if err != nil {
		return "", nil, err
	}
	if created {
		return trackChosenMessage(track), nil, nil
	}

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	if user.Track != track {
		if err := h.users.SwitchTrack(ctx, userID, track); err != nil {
			return "", nil, err
		}
		h.logger.Info("track switched",
			zap.Int64("user_id", userID),
			zap.String("track", string(track)),
		)
	}

	return trackChosenMessage(track), nil, nil
}

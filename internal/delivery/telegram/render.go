package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// renderProgress renders the progress screen with its keyboard.
func (h *Handler) renderProgress(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	snap, err := h.progress.Snapshot(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return formatProgress(snap), buildProgressKeyboard(), nil
}

func (h *Handler) renderBadges(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	snap, err := h.progress.Snapshot(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return formatBadges(h.badges.All(), snap.Gamification), buildBackToProgressKeyboard(), nil
}

func (h *Handler) renderLessons(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	snap, err := h.progress.Snapshot(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return formatLessons(h.lessons.Modules(), snap.Progress.Track, snap.Progress), buildBackToProgressKeyboard(), nil
}

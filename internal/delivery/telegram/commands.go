package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

func (h *Handler) handleHelp() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMessage()))
	}
}

// handleProgress displays user progress.
func (h *Handler) handleProgress(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderProgress(ctx, userID)
		if err != nil {
			return err
		}
		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

func (h *Handler) handleBadges(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderBadges(ctx, userID)
		if err != nil {
			return err
		}
		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

func (h *Handler) handleLessons(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderLessons(ctx, userID)
		if err != nil {
			return err
		}
		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

// handleDone marks a lesson as completed: /done <lesson> [minutes].
// Without minutes the expected duration of the lesson is counted.
func (h *Handler) handleDone(userID int64, args []string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(args) == 0 || len(args) > 2 {
			return h.send(newPlainMessage(chatID, msgUseDone))
		}

		lesson, err := h.lessons.Lesson(args[0])
		if err != nil {
			return err
		}

		minutes := lesson.Minutes
		if len(args) == 2 {
			minutes, err = strconv.Atoi(args[1])
			if err != nil || minutes < 0 || minutes > 600 {
				return h.send(newPlainMessage(chatID, msgInvalidMinutes))
			}
		}

		out, err := h.progress.Record(ctx, userID, gamification.LessonCompleted{
			LessonID: lesson.ID,
			Minutes:  minutes,
		})
		return h.announce(chatID, md("📗 Урок «"+lesson.Title+"» пройден"), out, err)
	}
}

func (h *Handler) handlePractice(userID int64, args []string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(args) != 1 {
			return h.send(newPlainMessage(chatID, msgUsePractice))
		}

		lesson, err := h.lessons.Lesson(args[0])
		if err != nil {
			return err
		}

		out, err := h.progress.Record(ctx, userID, gamification.PracticeCompleted{LessonID: lesson.ID})
		return h.announce(chatID, md("🧘 Практика к уроку «"+lesson.Title+"» выполнена"), out, err)
	}
}

// handleQuiz starts an inline quiz over a lesson: /quiz <lesson>.
func (h *Handler) handleQuiz(userID int64, args []string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(args) != 1 {
			return h.send(newPlainMessage(chatID, msgUseQuiz))
		}

		session, lesson, err := h.quiz.Start(userID, args[0])
		if err != nil {
			return err
		}

		h.logger.Debug("quiz started",
			zap.Int64("user_id", userID),
			zap.String("lesson_id", lesson.ID),
		)

		msg := newMessage(chatID, formatQuizQuestion(lesson, 0))
		msg.ReplyMarkup = buildQuizAnswerKeyboard(lesson.ID, 0, lesson.Quiz.Questions[0])
		sent, err := h.sendMessage(msg)
		if err != nil {
			return err
		}
		session.MessageID = sent.MessageID
		return nil
	}
}

// handleCheckIn starts the check-in wizard.
func (h *Handler) handleCheckIn(userID int64) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		draft := h.checkin.Start(userID)

		msg := newMessage(chatID, formatCheckInQuestion(draft.Step))
		msg.ReplyMarkup = buildCheckInStepKeyboard(draft.Step)
		sent, err := h.sendMessage(msg)
		if err != nil {
			return err
		}
		draft.MessageID = sent.MessageID
		return nil
	}
}

// handleCancel drops a running quiz or check-in.
func (h *Handler) handleCancel(userID int64) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		_, quizErr := h.quiz.Current(userID)
		_, checkInErr := h.checkin.Current(userID)
		if quizErr != nil && checkInErr != nil {
			return h.send(newPlainMessage(chatID, msgNothingToCancel))
		}

		h.quiz.Cancel(userID)
		h.checkin.Cancel(userID)
		return h.send(newPlainMessage(chatID, msgCancelled))
	}
}

func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newMessage(chatID, bold("Сбросить весь прогресс?")+"\n\n"+
			md("Опыт, уровень, серия, значки и история чек-инов будут удалены."))
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// handleText answers the sleep step of a check-in typed as a number.
func (h *Handler) handleText(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		draft, err := h.checkin.Current(userID)
		if err != nil || draft.Step != entities.StepSleep {
			return h.send(newPlainMessage(chatID, msgChatHint))
		}

		hours, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgInvalidSleep))
		}

		if hours < 0 || hours > 24 {
			return h.send(newPlainMessage(chatID, msgInvalidSleep))
		}

		done, out, err := h.checkin.Answer(ctx, userID, entities.StepSleep, hours)
		return h.finishCheckIn(chatID, userID, done, out, err)
	}
}

// finishCheckIn replaces the wizard with a summary and announces the outcome.
func (h *Handler) finishCheckIn(chatID, userID int64, d *entities.CheckInDraft, out *gamification.Outcome, err error) error {
	if err != nil && (out == nil || !errors.Is(err, gamification.ErrPersistence)) {
		return err
	}
	if d.MessageID != 0 {
		_ = h.send(newEdit(chatID, d.MessageID, formatCheckInSummary(d)))
	}
	h.dropReminder(userID)
	return h.announce(chatID, "", out, err)
}

// announce reports the result of a recorded event. A write failure still shows the
// outcome, followed by a warning.
func (h *Handler) announce(chatID int64, header string, out *gamification.Outcome, err error) error {
	if err != nil && (out == nil || !errors.Is(err, gamification.ErrPersistence)) {
		return err
	}

	parts := make([]string, 0, 3)
	if header != "" {
		parts = append(parts, header)
	}
	if text := formatOutcome(out, h.badges); text != "" {
		parts = append(parts, text)
	}
	if err != nil {
		h.logger.Warn("progress not persisted", zap.Int64("chat_id", chatID), zap.Error(err))
		parts = append(parts, md(msgNotPersisted))
	}
	if len(parts) == 0 {
		return nil
	}

	msg := newMessage(chatID, strings.Join(parts, "\n\n"))
	msg.ReplyMarkup = buildBackToProgressKeyboard()
	return h.send(msg)
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Debug("failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

// dropReminder deletes the pending reminder once the user has checked in.
func (h *Handler) dropReminder(userID int64) {
	if h.reminders == nil {
		return
	}
	if prev, ok := h.reminders.Take(userID); ok {
		h.deleteMessage(prev.ChatID, prev.MessageID)
	}
}

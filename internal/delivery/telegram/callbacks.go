package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// callbackFunc returns the new text and keyboard of the message the button belongs to.
// An empty text leaves the message as it is.
type callbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, error)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer h.answerCallback(cb, "")

	if cb.Message == nil {
		return
	}

	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionOnboarding:
		fn = h.handleOnboardingCallback
	case actionQuiz:
		fn = h.handleQuizCallback
	case actionCheckIn:
		fn = h.handleCheckInCallback
	case actionProgress:
		fn = h.screenCallback(h.renderProgress)
	case actionBadges:
		fn = h.screenCallback(h.renderBadges)
	case actionLessons:
		fn = h.screenCallback(h.renderLessons)
	case actionReset:
		fn = h.handleResetCallback
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	chatID := cb.Message.Chat.ID
	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		text, kb, err := fn(ctx, cb, data)
		if err != nil || text == "" {
			return err
		}

		edit := newEdit(chatID, cb.Message.MessageID, text)
		edit.ReplyMarkup = kb
		return h.send(edit)
	})(ctx, chatID)
}

// screenCallback adapts a renderer to a button that redraws its message.
func (h *Handler) screenCallback(render func(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error)) callbackFunc {
	return func(ctx context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, *tgbotapi.InlineKeyboardMarkup, error) {
		text, kb, err := render(ctx, cb.From.ID)
		if err != nil {
			return "", nil, err
		}
		return text, &kb, nil
	}
}

// handleQuizCallback takes "quiz:<lesson>:<question>:<option>".
func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	lessonID := data.param(0)
	question, err1 := strconv.Atoi(data.param(1))
	option, err2 := strconv.Atoi(data.param(2))
	if err1 != nil || err2 != nil {
		h.logger.Debug("invalid quiz callback", zap.String("data", cb.Data))
		return "", nil, nil
	}

	userID := cb.From.ID
	current, err := h.quiz.Current(userID)
	if err != nil {
		return "", nil, err
	}
	if current.LessonID != lessonID || current.Current() != question {
		// A button of an already answered question.
		return "", nil, nil
	}

	lesson, err := h.lessons.Lesson(lessonID)
	if err != nil {
		return "", nil, err
	}

	session, result, err := h.quiz.Answer(ctx, userID, lessonID, option)
	if result == nil {
		if err != nil {
			return "", nil, err
		}
		next := session.Current()
		kb := buildQuizAnswerKeyboard(lesson.ID, next, lesson.Quiz.Questions[next])
		return formatQuizQuestion(lesson, next), &kb, nil
	}

	h.logger.Info("quiz finished",
		zap.Int64("user_id", userID),
		zap.String("lesson_id", lesson.ID),
		zap.Int("score", result.Score),
	)

	if err := h.announce(cb.Message.Chat.ID, "", result.Outcome, err); err != nil {
		return "", nil, err
	}
	return formatQuizResult(lesson, result.Score), nil, nil
}

// handleCheckInCallback takes "checkin:<step>:<value>", "checkin:start" and "checkin:cancel".
func (h *Handler) handleCheckInCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	userID := cb.From.ID

	switch data.param(0) {
	case checkInStart:
		draft := h.checkin.Start(userID)
		draft.MessageID = cb.Message.MessageID
		kb := buildCheckInStepKeyboard(draft.Step)
		return formatCheckInQuestion(draft.Step), &kb, nil
	case checkInCancel:
		h.checkin.Cancel(userID)
		return md(msgCancelled), nil, nil
	}

	stepNum, err1 := strconv.Atoi(data.param(0))
	value, err2 := strconv.ParseFloat(data.param(1), 64)
	if err1 != nil || err2 != nil {
		h.logger.Debug("invalid check-in callback", zap.String("data", cb.Data))
		return "", nil, nil
	}
	step := entities.CheckInStep(stepNum)

	current, err := h.checkin.Current(userID)
	if err != nil {
		return "", nil, err
	}
	if current.Step != step {
		// A button of an already answered step.
		return "", nil, nil
	}

	draft, out, err := h.checkin.Answer(ctx, userID, step, value)
	if draft == nil {
		return "", nil, err
	}
	if draft.Step != entities.StepDone {
		if err != nil {
			return "", nil, err
		}
		kb := buildCheckInStepKeyboard(draft.Step)
		return formatCheckInQuestion(draft.Step), &kb, nil
	}

	draft.MessageID = cb.Message.MessageID
	return "", nil, h.finishCheckIn(cb.Message.Chat.ID, userID, draft, out, err)
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if data.param(0) != resetConfirm {
		return md(msgResetCancelled), nil, nil
	}

	userID := cb.From.ID
	if err := h.progress.Reset(ctx, userID); err != nil {
		return "", nil, err
	}
	h.quiz.Cancel(userID)
	h.checkin.Cancel(userID)

	return md(msgResetDone), nil, nil
}

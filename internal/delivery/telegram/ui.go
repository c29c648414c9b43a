package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// sleepOptions are the hours offered by the sleep step of a check-in.
var sleepOptions = []float64{4, 5, 6, 7, 8, 9, 10, 11}

func buildTrackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧑 Я подросток", buildOnboardingTrackCallback(entities.TrackTeen)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👪 Я родитель", buildOnboardingTrackCallback(entities.TrackParent)),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", buildProgressCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🏅 Значки", buildBadgesCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Уроки", buildLessonsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("📝 Чек-ин", buildCheckInStartCallback()),
		),
	)
}

func buildBackToProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Мой прогресс", buildProgressCallback()),
		),
	)
}

// buildQuizAnswerKeyboard builds keyboard for quiz question.
func buildQuizAnswerKeyboard(lessonID string, question int, q entities.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		button := tgbotapi.NewInlineKeyboardButtonData(option, buildQuizAnswerCallback(lessonID, question, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildScaleKeyboard offers the 1..10 answers of the mood, anxiety and energy steps.
func buildScaleKeyboard(step entities.CheckInStep) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for start := 1; start <= 10; start += 5 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
		for v := start; v < start+5; v++ {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d", v),
				buildCheckInAnswerCallback(step, float64(v)),
			))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ Отмена", buildCheckInCancelCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildSleepKeyboard() tgbotapi.InlineKeyboardMarkup {
	row1 := make([]tgbotapi.InlineKeyboardButton, 0, len(sleepOptions)/2)
	row2 := make([]tgbotapi.InlineKeyboardButton, 0, len(sleepOptions)/2)
	for i, h := range sleepOptions {
		b := tgbotapi.NewInlineKeyboardButtonData(
			formatHours(h),
			buildCheckInAnswerCallback(entities.StepSleep, h),
		)
		if i < len(sleepOptions)/2 {
			row1 = append(row1, b)
		} else {
			row2 = append(row2, b)
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row1,
		row2,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Отмена", buildCheckInCancelCallback()),
		),
	)
}

// buildCheckInStepKeyboard returns the answers of the current wizard step.
func buildCheckInStepKeyboard(step entities.CheckInStep) tgbotapi.InlineKeyboardMarkup {
	if step == entities.StepSleep {
		return buildSleepKeyboard()
	}
	return buildScaleKeyboard(step)
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Да, сбросить", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", buildResetCancelCallback()),
		),
	)
}

// buildReminderKeyboard builds keyboard for reminder notifications.
func buildReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Отметиться", buildCheckInStartCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Мой прогресс", buildProgressCallback()),
		),
	)
}

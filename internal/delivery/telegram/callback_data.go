package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionOnboarding = "onboarding"
	actionQuiz       = "quiz"
	actionCheckIn    = "checkin"
	actionProgress   = "progress"
	actionBadges     = "badges"
	actionLessons    = "lessons"
	actionReset      = "reset"
)

// Onboarding sub-actions.
const (
	onboardingTrack = "track"
)

// Check-in sub-actions.
const (
	checkInStart  = "start"
	checkInCancel = "cancel"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

func buildOnboardingTrackCallback(track entities.Track) string {
	return callbackData{
		Action: actionOnboarding,
		Params: []string{onboardingTrack, string(track)},
	}.encode()
}

// buildQuizAnswerCallback builds callback data for answering a quiz question.
// The question index lets stale buttons of an already answered question be ignored.
func buildQuizAnswerCallback(lessonID string, question, option int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{lessonID, strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

func buildCheckInAnswerCallback(step entities.CheckInStep, value float64) string {
	return callbackData{
		Action: actionCheckIn,
		Params: []string{
			strconv.Itoa(int(step)),
			strconv.FormatFloat(value, 'f', -1, 64),
		},
	}.encode()
}

func buildCheckInStartCallback() string {
	return callbackData{Action: actionCheckIn, Params: []string{checkInStart}}.encode()
}

func buildCheckInCancelCallback() string {
	return callbackData{Action: actionCheckIn, Params: []string{checkInCancel}}.encode()
}

func buildProgressCallback() string {
	return actionProgress
}

func buildBadgesCallback() string {
	return actionBadges
}

func buildLessonsCallback() string {
	return actionLessons
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

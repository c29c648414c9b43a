package entities

import "time"

// QuizSession is an in-progress lesson quiz taken question by question in the chat.
type QuizSession struct {
	UserID    int64
	LessonID  string
	Answers   []int // chosen option index per answered question
	Total     int   // number of questions in the quiz
	MessageID int   // message that is edited as the quiz advances
	StartedAt time.Time
}

// NewQuizSession starts a quiz over a lesson with total questions.
func NewQuizSession(userID int64, lessonID string, total int, now time.Time) *QuizSession {
	return &QuizSession{
		UserID:    userID,
		LessonID:  lessonID,
		Answers:   make([]int, 0, total),
		Total:     total,
		StartedAt: now,
	}
}

// Current returns the zero-based index of the question to answer next.
func (qs *QuizSession) Current() int {
	return len(qs.Answers)
}

// Answer records the option chosen for the current question and reports
// whether the quiz is finished.
func (qs *QuizSession) Answer(option int) bool {
	if !qs.Done() {
		qs.Answers = append(qs.Answers, option)
	}
	return qs.Done()
}

// Done reports whether every question has an answer.
func (qs *QuizSession) Done() bool {
	return len(qs.Answers) >= qs.Total
}

// CheckInStep is the current question of the check-in wizard.
type CheckInStep int

const (
	StepMood CheckInStep = iota
	StepAnxiety
	StepEnergy
	StepSleep
	StepDone
)

// CheckInDraft collects check-in answers before they are submitted as one event.
type CheckInDraft struct {
	UserID     int64
	Step       CheckInStep
	Mood       int
	Anxiety    int
	Energy     int
	SleepHours float64
	MessageID  int
}

// Set stores the answer to the current step and advances the wizard.
func (d *CheckInDraft) Set(value float64) {
	switch d.Step {
	case StepMood:
		d.Mood = int(value)
	case StepAnxiety:
		d.Anxiety = int(value)
	case StepEnergy:
		d.Energy = int(value)
	case StepSleep:
		d.SleepHours = value
	default:
		return
	}
	d.Step++
}

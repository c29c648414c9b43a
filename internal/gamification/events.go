// Package gamification turns learning and check-in events into progress snapshots and badges.
//
// The pipeline is synchronous and free of I/O: an Ingestor validates an event, an Aggregator
// folds it into a snapshot and an Evaluator grants newly satisfied badges. Persisting the
// result is up to the caller.
package gamification

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// EventKind names one of the accepted facts.
type EventKind string

const (
	KindLessonCompleted   EventKind = "lesson_completed"
	KindQuizScored        EventKind = "quiz_scored"
	KindPracticeCompleted EventKind = "practice_completed"
	KindCheckInSubmitted  EventKind = "checkin_submitted"
)

// Event is a discrete fact about a user's activity.
type Event interface {
	Kind() EventKind
	OccurredAt() time.Time
}

// LessonCompleted is sent when a user finishes a lesson.
type LessonCompleted struct {
	LessonID string    `json:"lesson_id" validate:"lessonid"`
	Minutes  int       `json:"minutes" validate:"gte=0,lte=600"`
	At       time.Time `json:"at"`
}

// QuizScored is sent when a user finishes a lesson quiz.
// CompleteLesson also marks the lesson as completed in the same event.
type QuizScored struct {
	LessonID       string    `json:"lesson_id" validate:"lessonid"`
	Score          int       `json:"score" validate:"gte=0,lte=100"`
	CompleteLesson bool      `json:"complete_lesson"`
	At             time.Time `json:"at"`
}

// PracticeCompleted is sent when a user finishes the practice part of a lesson.
type PracticeCompleted struct {
	LessonID string    `json:"lesson_id" validate:"lessonid"`
	At       time.Time `json:"at"`
}

// CheckInSubmitted carries one emotional self-report.
type CheckInSubmitted struct {
	ID         string    `json:"id"`
	Mood       int       `json:"mood" validate:"gte=1,lte=10"`
	Anxiety    int       `json:"anxiety" validate:"gte=1,lte=10"`
	Energy     int       `json:"energy" validate:"gte=1,lte=10"`
	SleepHours float64   `json:"sleep_hours" validate:"gte=0,lte=24"`
	Note       string    `json:"note" validate:"max=1000"`
	At         time.Time `json:"at"`
}

func (e LessonCompleted) Kind() EventKind   { return KindLessonCompleted }
func (e QuizScored) Kind() EventKind        { return KindQuizScored }
func (e PracticeCompleted) Kind() EventKind { return KindPracticeCompleted }
func (e CheckInSubmitted) Kind() EventKind  { return KindCheckInSubmitted }

func (e LessonCompleted) OccurredAt() time.Time   { return e.At }
func (e QuizScored) OccurredAt() time.Time        { return e.At }
func (e PracticeCompleted) OccurredAt() time.Time { return e.At }
func (e CheckInSubmitted) OccurredAt() time.Time  { return e.At }

// CheckIn converts the payload into the immutable history record.
func (e CheckInSubmitted) CheckIn() entities.CheckIn {
	return entities.CheckIn{
		ID:         e.ID,
		Mood:       e.Mood,
		Anxiety:    e.Anxiety,
		Energy:     e.Energy,
		SleepHours: e.SleepHours,
		Note:       e.Note,
		Timestamp:  e.At,
	}
}

// LessonCatalog provides the valid lesson IDs used as validation context.
type LessonCatalog interface {
	HasLesson(id string) bool
}

// Ingestor validates events. It holds no user state.
type Ingestor struct {
	validate *validator.Validate
	lessons  LessonCatalog
	now      func() time.Time
}

// NewIngestor creates an Ingestor. A nil catalog disables the lesson existence check;
// a nil clock defaults to time.Now.
func NewIngestor(lessons LessonCatalog, now func() time.Time) *Ingestor {
	if now == nil {
		now = time.Now
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("lessonid", validLessonID); err != nil {
		panic(fmt.Sprintf("register lessonid validation: %v", err))
	}

	return &Ingestor{
		validate: v,
		lessons:  lessons,
		now:      now,
	}
}

// Ingest validates ev and returns it normalised: the timestamp is filled from the clock when
// missing and converted to UTC, and check-ins get an ID. Invalid events yield *ValidationError.
func (i *Ingestor) Ingest(ev Event) (Event, error) {
	if rv := reflect.ValueOf(ev); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if deref, ok := rv.Elem().Interface().(Event); ok {
			ev = deref
		}
	}
	if ev == nil || reflect.ValueOf(ev).Kind() == reflect.Pointer {
		return nil, &ValidationError{
			Violations: []FieldViolation{{Field: "event", Rule: "required"}},
		}
	}

	if err := i.validate.Struct(ev); err != nil {
		return nil, toValidationError(ev.Kind(), err)
	}

	switch e := ev.(type) {
	case LessonCompleted:
		if err := i.checkLesson(e.Kind(), e.LessonID); err != nil {
			return nil, err
		}
		e.At = i.stamp(e.At)
		return e, nil
	case QuizScored:
		if err := i.checkLesson(e.Kind(), e.LessonID); err != nil {
			return nil, err
		}
		e.At = i.stamp(e.At)
		return e, nil
	case PracticeCompleted:
		if err := i.checkLesson(e.Kind(), e.LessonID); err != nil {
			return nil, err
		}
		e.At = i.stamp(e.At)
		return e, nil
	case CheckInSubmitted:
		e.At = i.stamp(e.At)
		e.Note = strings.TrimSpace(e.Note)
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		return e, nil
	default:
		return nil, &ValidationError{
			Kind:       ev.Kind(),
			Violations: []FieldViolation{{Field: "event", Rule: "unsupported"}},
		}
	}
}

// validLessonID accepts a non-empty ID without whitespace or the callback separator.
func validLessonID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && len(id) <= 64 && strings.TrimSpace(id) == id && !strings.ContainsAny(id, " \t\n:")
}

func (i *Ingestor) checkLesson(kind EventKind, lessonID string) error {
	if i.lessons == nil || i.lessons.HasLesson(lessonID) {
		return nil
	}
	return &ValidationError{
		Kind:       kind,
		Violations: []FieldViolation{{Field: "lesson_id", Rule: "exists", Param: lessonID}},
	}
}

func (i *Ingestor) stamp(at time.Time) time.Time {
	if at.IsZero() {
		at = i.now()
	}
	return at.UTC()
}

func toValidationError(kind EventKind, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{
			Kind:       kind,
			Violations: []FieldViolation{{Field: "event", Rule: err.Error()}},
		}
	}

	ve := &ValidationError{Kind: kind}
	for _, fe := range fieldErrs {
		ve.Violations = append(ve.Violations, FieldViolation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return ve
}

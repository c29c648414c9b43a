package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

var (
	ErrNoActiveQuiz = errors.New("no active quiz")
	ErrNoQuiz       = errors.New("lesson has no quiz")
)

// QuizSessions stores the running quiz of each user.
type QuizSessions interface {
	Store(userID int64, s *entities.QuizSession)
	Get(userID int64) (*entities.QuizSession, bool)
	Delete(userID int64)
}

// Recorder applies an event to the user's progress.
type Recorder interface {
	Record(ctx context.Context, userID int64, ev gamification.Event) (*gamification.Outcome, error)
}

// QuizResult is returned once the last question is answered.
type QuizResult struct {
	Score   int
	Outcome *gamification.Outcome
}

// QuizService runs a lesson quiz question by question and records the final score.
type QuizService struct {
	lessons  LessonCatalog
	sessions QuizSessions
	progress Recorder
	now      func() time.Time
}

func NewQuizService(lessons LessonCatalog, sessions QuizSessions, progress Recorder) *QuizService {
	return &QuizService{
		lessons:  lessons,
		sessions: sessions,
		progress: progress,
		now:      time.Now,
	}
}

// Start opens a new quiz for the lesson, replacing any unfinished one.
func (s *QuizService) Start(userID int64, lessonID string) (*entities.QuizSession, entities.Lesson, error) {
	lesson, err := s.lessons.Lesson(lessonID)
	if err != nil {
		return nil, entities.Lesson{}, err
	}
	if lesson.Quiz == nil || len(lesson.Quiz.Questions) == 0 {
		return nil, entities.Lesson{}, fmt.Errorf("%w: %s", ErrNoQuiz, lessonID)
	}

	session := entities.NewQuizSession(userID, lessonID, len(lesson.Quiz.Questions), s.now())
	s.sessions.Store(userID, session)
	return session, lesson, nil
}

// Current returns the running quiz of the user.
func (s *QuizService) Current(userID int64) (*entities.QuizSession, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	return session, nil
}

// Answer records an answer. When it completes the quiz, the answers are graded and a
// QuizScored event that also completes the lesson is recorded.
//
// The returned error may be a *gamification.PersistenceError together with a non-nil result.
func (s *QuizService) Answer(ctx context.Context, userID int64, lessonID string, option int) (*entities.QuizSession, *QuizResult, error) {
	session, ok := s.sessions.Get(userID)
	if !ok || session.LessonID != lessonID {
		return nil, nil, ErrNoActiveQuiz
	}

	if !session.Answer(option) {
		s.sessions.Store(userID, session)
		return session, nil, nil
	}
	s.sessions.Delete(userID)

	score, err := s.lessons.GradeQuiz(session.LessonID, session.Answers)
	if err != nil {
		return session, nil, err
	}

	out, err := s.progress.Record(ctx, userID, gamification.QuizScored{
		LessonID:       session.LessonID,
		Score:          score,
		CompleteLesson: true,
		At:             s.now(),
	})
	if out == nil {
		return session, nil, err
	}
	return session, &QuizResult{Score: score, Outcome: out}, err
}

// Cancel drops the running quiz.
func (s *QuizService) Cancel(userID int64) {
	s.sessions.Delete(userID)
}

package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// day returns 10:00 UTC of the n-th day after March 1st 2026.
func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

type lessonSet map[string]bool

func (l lessonSet) HasLesson(id string) bool { return l[id] }

func testLessons() lessonSet {
	return lessonSet{"m1-l1": true, "m1-l2": true, "m1-l3": true, "m2-l1": true}
}

func testRules() Rules {
	r := DefaultRules()
	r.LessonXP = 100
	r.QuizMaxXP = 50
	r.PracticeXP = 30
	r.CheckInXP = 10
	return r
}

func newTestEngine(t *testing.T, rules Rules, badges []entities.Badge) *Engine {
	t.Helper()
	require.NoError(t, rules.Validate())

	registry := DefaultRegistry()
	for _, b := range badges {
		require.NoError(t, registry.CheckBadge(b))
	}

	return NewEngine(
		NewIngestor(testLessons(), func() time.Time { return testNow }),
		NewAggregator(rules, time.UTC),
		NewEvaluator(badges, registry),
	)
}

func checkIn(mood, anxiety, energy int, sleep float64, at time.Time) CheckInSubmitted {
	return CheckInSubmitted{Mood: mood, Anxiety: anxiety, Energy: energy, SleepHours: sleep, At: at}
}

// mustProcess applies events in order and fails the test on the first error.
func mustProcess(t *testing.T, e *Engine, s entities.Snapshot, events ...Event) entities.Snapshot {
	t.Helper()
	for _, ev := range events {
		out, err := e.Process(s, ev)
		require.NoError(t, err)
		s = out.Snapshot
	}
	return s
}

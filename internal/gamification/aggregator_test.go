package gamification

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

func TestAggregator_QuizScoredEndToEnd(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)
	s := e.NewSnapshot(1, entities.TrackTeen)
	require.Equal(t, 0, s.Gamification.XP)
	require.Equal(t, 1, s.Gamification.Level())

	t.Run("quiz only", func(t *testing.T) {
		out, err := e.Process(s, QuizScored{LessonID: "m1-l1", Score: 80, At: day(0)})
		require.NoError(t, err)

		assert.Equal(t, 40, out.XPGained)
		assert.Equal(t, 40, out.Snapshot.Gamification.XP)
		assert.Equal(t, 1, out.Level())
		assert.Equal(t, 80, out.Snapshot.Progress.QuizScores["m1-l1"])
		assert.False(t, out.Snapshot.Progress.HasCompleted("m1-l1"))
	})

	t.Run("quiz completing the lesson", func(t *testing.T) {
		out, err := e.Process(s, QuizScored{LessonID: "m1-l1", Score: 80, CompleteLesson: true, At: day(0)})
		require.NoError(t, err)

		assert.Equal(t, 140, out.Snapshot.Gamification.XP)
		assert.Equal(t, entities.LevelForXP(140), out.Level())
		assert.Equal(t, 2, out.Level())
		assert.True(t, out.LeveledUp())
		assert.True(t, out.Snapshot.Progress.HasCompleted("m1-l1"))
		assert.Equal(t, 1, out.Snapshot.Gamification.Streak)
	})
}

func TestAggregator_LessonXPOnlyOnFirstCompletion(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)

	s := mustProcess(t, e, e.NewSnapshot(1, entities.TrackTeen),
		LessonCompleted{LessonID: "m1-l1", Minutes: 10, At: day(0)},
		LessonCompleted{LessonID: "m1-l1", Minutes: 5, At: day(0)},
	)

	assert.Equal(t, 100, s.Gamification.XP)
	assert.Equal(t, 1, s.Gamification.LessonsCompleted)
	assert.Equal(t, []string{"m1-l1"}, s.Progress.CompletedLessons)
	assert.Equal(t, 15, s.Progress.TimeSpent["m1-l1"])
	assert.Equal(t, 15, s.Gamification.MinutesSpent)
}

func TestAggregator_QuizRetakesEarnOnlyImprovement(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)
	s := e.NewSnapshot(1, entities.TrackTeen)

	steps := []struct {
		score  int
		gained int
		xp     int
	}{
		{80, 40, 40},
		{60, 0, 40},
		{100, 10, 50},
		{100, 0, 50},
	}

	for _, step := range steps {
		out, err := e.Process(s, QuizScored{LessonID: "m1-l2", Score: step.score, At: day(0)})
		require.NoError(t, err)
		assert.Equal(t, step.gained, out.XPGained, "score %d", step.score)
		assert.Equal(t, step.xp, out.Snapshot.Gamification.XP, "score %d", step.score)
		assert.Equal(t, step.score, out.Snapshot.Progress.QuizScores["m1-l2"])
		s = out.Snapshot
	}
	assert.Equal(t, 4, s.Gamification.QuizzesTaken)
	assert.Equal(t, 100, s.Progress.QuizBest["m1-l2"])
}

func TestAggregator_QuizAlternatingScoresCannotFarmXP(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)
	s := e.NewSnapshot(1, entities.TrackTeen)

	for range 5 {
		s = mustProcess(t, e, s,
			QuizScored{LessonID: "m1-l2", Score: 100, At: day(0)},
			QuizScored{LessonID: "m1-l2", Score: 0, At: day(0)},
		)
	}

	assert.Equal(t, 50, s.Gamification.XP)
	assert.Equal(t, 0, s.Progress.QuizScores["m1-l2"])
	assert.Equal(t, 100, s.Progress.QuizBest["m1-l2"])
	assert.Equal(t, 10, s.Gamification.QuizzesTaken)
}

func TestAggregator_QuizBestFallsBackToLastScore(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)
	s := e.NewSnapshot(1, entities.TrackTeen)
	s.Progress.QuizScores["m1-l2"] = 80
	s.Progress.QuizBest = nil

	out, err := e.Process(s, QuizScored{LessonID: "m1-l2", Score: 90, At: day(0)})
	require.NoError(t, err)

	assert.Equal(t, 5, out.XPGained)
	assert.Equal(t, 90, out.Snapshot.Progress.QuizBest["m1-l2"])
}

func TestAggregator_PracticeCountedOnce(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)

	s := mustProcess(t, e, e.NewSnapshot(1, entities.TrackTeen),
		PracticeCompleted{LessonID: "m1-l1", At: day(0)},
		PracticeCompleted{LessonID: "m1-l1", At: day(1)},
		PracticeCompleted{LessonID: "m1-l2", At: day(1)},
	)

	assert.Equal(t, 60, s.Gamification.XP)
	assert.Equal(t, 2, s.Gamification.PracticesCompleted)
	assert.True(t, s.Progress.PracticeCompleted["m1-l1"])
	assert.Equal(t, 0, s.Gamification.Streak)
}

func TestAggregator_CheckInXPOncePerDay(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)

	s := mustProcess(t, e, e.NewSnapshot(1, entities.TrackTeen),
		checkIn(5, 5, 5, 8, day(0)),
		checkIn(6, 4, 5, 8, day(0).Add(3*time.Hour)),
		checkIn(7, 3, 6, 9, day(1)),
	)

	assert.Equal(t, 20, s.Gamification.XP)
	assert.Equal(t, 3, s.Gamification.CheckInsCount)
	require.Len(t, s.Progress.CheckIns, 3)
	assert.Equal(t, 7, s.Progress.CheckIns[2].Mood)
	assert.Equal(t, 2, s.Gamification.Streak)
}

func TestAggregator_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)
	s := mustProcess(t, e, e.NewSnapshot(1, entities.TrackTeen), LessonCompleted{LessonID: "m1-l1", At: day(0)})
	before := s.Clone()

	_, err := e.Process(s, LessonCompleted{LessonID: "m1-l2", Minutes: 3, At: day(1)})
	require.NoError(t, err)
	_, err = e.Process(s, checkIn(4, 4, 4, 7, day(1)))
	require.NoError(t, err)

	assert.Equal(t, before, s)
}

func TestAggregator_XPNeverDecreases(t *testing.T) {
	e := newTestEngine(t, testRules(), nil)
	rng := rand.New(rand.NewSource(42))
	lessons := []string{"m1-l1", "m1-l2", "m1-l3", "m2-l1"}

	s := e.NewSnapshot(1, entities.TrackTeen)
	initial := s.Gamification.XP

	for i := 0; i < 500; i++ {
		at := day(i / 5)
		lesson := lessons[rng.Intn(len(lessons))]

		var ev Event
		switch rng.Intn(4) {
		case 0:
			ev = LessonCompleted{LessonID: lesson, Minutes: rng.Intn(30), At: at}
		case 1:
			ev = QuizScored{LessonID: lesson, Score: rng.Intn(101), CompleteLesson: rng.Intn(2) == 0, At: at}
		case 2:
			ev = PracticeCompleted{LessonID: lesson, At: at}
		default:
			ev = checkIn(1+rng.Intn(10), 1+rng.Intn(10), 1+rng.Intn(10), float64(rng.Intn(12)), at)
		}

		out, err := e.Process(s, ev)
		require.NoError(t, err)
		require.GreaterOrEqual(t, out.XPGained, 0)
		require.GreaterOrEqual(t, out.Snapshot.Gamification.XP, s.Gamification.XP)
		require.GreaterOrEqual(t, out.Snapshot.Gamification.LongestStreak, s.Gamification.LongestStreak)
		require.LessOrEqual(t, out.Snapshot.Gamification.FreezesUsed, out.Snapshot.Gamification.MaxFreezes)
		require.GreaterOrEqual(t, out.Snapshot.Gamification.WellnessScore, 0)
		require.LessOrEqual(t, out.Snapshot.Gamification.WellnessScore, 100)
		s = out.Snapshot
	}

	assert.GreaterOrEqual(t, s.Gamification.XP, initial)
}

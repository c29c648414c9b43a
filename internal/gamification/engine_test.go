package gamification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

func testBadges() []entities.Badge {
	return []entities.Badge{
		{ID: "first_steps", Criteria: threshold("lessons_completed", 1)},
		{ID: "perfectionist", Criteria: custom("perfect_quiz")},
		{ID: "open_heart", Criteria: custom("open_heart")},
		xpBadge(),
	}
}

func TestEngine_Process(t *testing.T) {
	e := newTestEngine(t, testRules(), testBadges())
	s := e.NewSnapshot(7, entities.TrackTeen)

	out, err := e.Process(s, QuizScored{LessonID: "m1-l1", Score: 100, CompleteLesson: true, At: day(0)})
	require.NoError(t, err)

	assert.Equal(t, 150, out.XPGained)
	assert.Equal(t, 150, out.Snapshot.Gamification.XP)
	assert.Equal(t, 1, out.PreviousLevel)
	assert.Equal(t, 2, out.Level())
	assert.True(t, out.LeveledUp())
	assert.Equal(t, []string{"first_steps:", "perfectionist:"}, badgeKeys(out.NewBadges))
	assert.Equal(t, day(0), out.Snapshot.UpdatedAt)

	out, err = e.Process(out.Snapshot, CheckInSubmitted{
		Mood: 7, Anxiety: 3, Energy: 6, SleepHours: 8, Note: "  good day ", At: day(1),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, out.XPGained)
	assert.False(t, out.LeveledUp())
	assert.Equal(t, []string{"open_heart:"}, badgeKeys(out.NewBadges))
	require.Len(t, out.Snapshot.Progress.CheckIns, 1)
	assert.Equal(t, "good day", out.Snapshot.Progress.CheckIns[0].Note)
	assert.NotEmpty(t, out.Snapshot.Progress.CheckIns[0].ID)
	assert.Equal(t, 2, out.Snapshot.Gamification.Streak)
}

func TestEngine_InvalidEventLeavesSnapshot(t *testing.T) {
	e := newTestEngine(t, testRules(), testBadges())
	s := mustProcess(t, e, e.NewSnapshot(7, entities.TrackTeen),
		LessonCompleted{LessonID: "m1-l1", Minutes: 10, At: day(0)},
	)
	before := s.Clone()

	for _, mood := range []int{0, 11} {
		out, err := e.Process(s, checkIn(mood, 5, 5, 8, day(1)))

		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, Outcome{}, out)
		assert.Equal(t, before, s)
	}

	_, err := e.Process(s, LessonCompleted{LessonID: "m9-l9", At: day(1)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lesson_id", verr.Violations[0].Field)
}

func TestEngine_SnapshotJSONRoundTrip(t *testing.T) {
	e := newTestEngine(t, testRules(), testBadges())
	s := mustProcess(t, e, e.NewSnapshot(7, entities.TrackParent),
		LessonCompleted{LessonID: "m1-l1", Minutes: 12, At: day(0)},
		QuizScored{LessonID: "m1-l1", Score: 80, At: day(0)},
		PracticeCompleted{LessonID: "m1-l1", At: day(1)},
		checkIn(4, 7, 5, 6.5, day(1)),
		checkIn(6, 5, 6, 8, day(3)),
	)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded entities.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, s, decoded)
	assert.Equal(t, s.Gamification.Level(), decoded.Gamification.Level())
}

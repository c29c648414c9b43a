package entities

import (
	"slices"
	"time"
)

// CheckIn is one self-reported emotional snapshot. It is never mutated after creation.
type CheckIn struct {
	ID         string    `json:"id"`
	Mood       int       `json:"mood"`    // 1-10
	Anxiety    int       `json:"anxiety"` // 1-10
	Energy     int       `json:"energy"`  // 1-10
	SleepHours float64   `json:"sleep_hours"`
	Note       string    `json:"note,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// UserProgress stores the learning progress of a user on one track.
type UserProgress struct {
	UserID            int64           `json:"user_id"`
	Track             Track           `json:"track"`
	CompletedLessons  []string        `json:"completed_lessons"`  // set of lesson IDs, kept sorted
	QuizScores        map[string]int  `json:"quiz_scores"`        // lesson ID -> 0..100, last write wins
	QuizBest          map[string]int  `json:"quiz_best"`          // lesson ID -> best score, basis of quiz XP
	TimeSpent         map[string]int  `json:"time_spent"`         // lesson ID -> minutes, additive
	PracticeCompleted map[string]bool `json:"practice_completed"` // lesson ID -> done
	CheckIns          []CheckIn       `json:"check_ins"`          // ordered by submission
	Streak            int             `json:"streak"`
	LastActiveDate    time.Time       `json:"last_active_date"` // start of the last active calendar day
}

// NewUserProgress creates an empty progress record for a user.
func NewUserProgress(userID int64, track Track) UserProgress {
	return UserProgress{
		UserID:            userID,
		Track:             track,
		CompletedLessons:  []string{},
		QuizScores:        map[string]int{},
		QuizBest:          map[string]int{},
		TimeSpent:         map[string]int{},
		PracticeCompleted: map[string]bool{},
		CheckIns:          []CheckIn{},
	}
}

// HasCompleted reports whether the lesson is in the completed set.
func (p *UserProgress) HasCompleted(lessonID string) bool {
	_, found := slices.BinarySearch(p.CompletedLessons, lessonID)
	return found
}

// MarkCompleted adds the lesson to the completed set and reports whether it was new.
func (p *UserProgress) MarkCompleted(lessonID string) bool {
	idx, found := slices.BinarySearch(p.CompletedLessons, lessonID)
	if found {
		return false
	}
	p.CompletedLessons = slices.Insert(p.CompletedLessons, idx, lessonID)
	return true
}

// BestQuizScore returns the highest score recorded for a lesson quiz.
// Snapshots written before best scores were tracked fall back to the last score.
func (p UserProgress) BestQuizScore(lessonID string) (int, bool) {
	if best, ok := p.QuizBest[lessonID]; ok {
		return best, true
	}
	score, ok := p.QuizScores[lessonID]
	return score, ok
}

// Clone returns a deep copy so that callers can mutate without aliasing.
func (p UserProgress) Clone() UserProgress {
	c := p
	c.CompletedLessons = slices.Clone(p.CompletedLessons)
	c.QuizScores = cloneMap(p.QuizScores)
	c.QuizBest = cloneMap(p.QuizBest)
	c.TimeSpent = cloneMap(p.TimeSpent)
	c.PracticeCompleted = cloneMap(p.PracticeCompleted)
	c.CheckIns = slices.Clone(p.CheckIns)
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

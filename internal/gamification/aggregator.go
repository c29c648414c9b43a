package gamification

import (
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// Aggregator folds validated events into snapshots. It is a total function over
// a snapshot and a validated event and never mutates its input.
type Aggregator struct {
	rules Rules
	loc   *time.Location
}

// NewAggregator creates an Aggregator. Calendar days are computed in loc (UTC when nil).
func NewAggregator(rules Rules, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{rules: rules, loc: loc}
}

// Rules returns the tuning the aggregator was built with.
func (a *Aggregator) Rules() Rules {
	return a.rules
}

// Apply returns the snapshot updated with ev and the XP it earned.
// XP increments are never negative.
func (a *Aggregator) Apply(s entities.Snapshot, ev Event) (entities.Snapshot, int) {
	next := s.Clone()
	p := &next.Progress
	g := &next.Gamification
	a.ensureMaps(p)

	g.MaxFreezes = a.rules.MaxFreezes
	g.FreezesUsed = min(g.FreezesUsed, g.MaxFreezes)

	at := ev.OccurredAt().UTC()
	gained := 0

	switch e := ev.(type) {
	case LessonCompleted:
		gained += a.completeLesson(p, g, e.LessonID, e.Minutes)
		a.touchStreak(p, g, at)

	case QuizScored:
		best, scored := p.BestQuizScore(e.LessonID)
		p.QuizScores[e.LessonID] = e.Score
		g.QuizzesTaken++
		switch {
		case !scored:
			gained += a.quizXP(e.Score)
			p.QuizBest[e.LessonID] = e.Score
		case e.Score > best:
			gained += a.quizXP(e.Score) - a.quizXP(best)
			p.QuizBest[e.LessonID] = e.Score
		default:
			p.QuizBest[e.LessonID] = best
		}
		if e.CompleteLesson {
			gained += a.completeLesson(p, g, e.LessonID, 0)
			a.touchStreak(p, g, at)
		}

	case PracticeCompleted:
		if !p.PracticeCompleted[e.LessonID] {
			p.PracticeCompleted[e.LessonID] = true
			g.PracticesCompleted++
			gained += a.rules.PracticeXP
		}

	case CheckInSubmitted:
		if a.firstCheckInOfDay(p.CheckIns, at) {
			gained += a.rules.CheckInXP
		}
		ci := e.CheckIn()
		ci.Timestamp = at
		p.CheckIns = append(p.CheckIns, ci)
		g.CheckInsCount = len(p.CheckIns)
		a.touchStreak(p, g, at)
	}

	g.XP += gained
	g.EmotionalGrowth = computeEmotionalGrowth(p.CheckIns, a.rules, a.loc)
	g.WellnessScore = computeWellness(g.EmotionalGrowth, len(p.CheckIns) > 0, g.Streak, a.rules)
	if at.After(next.UpdatedAt) {
		next.UpdatedAt = at
	}

	return next, gained
}

// completeLesson records a lesson completion; XP is only granted the first time.
func (a *Aggregator) completeLesson(p *entities.UserProgress, g *entities.GamificationProgress, lessonID string, minutes int) int {
	if minutes > 0 {
		p.TimeSpent[lessonID] += minutes
		g.MinutesSpent += minutes
	}
	if !p.MarkCompleted(lessonID) {
		return 0
	}
	g.LessonsCompleted = len(p.CompletedLessons)
	return a.rules.LessonXP
}

// quizXP is the proportional bonus for a score, rounded down.
func (a *Aggregator) quizXP(score int) int {
	return score * a.rules.QuizMaxXP / 100
}

func (a *Aggregator) firstCheckInOfDay(history []entities.CheckIn, at time.Time) bool {
	for _, ci := range history {
		if entities.CalendarDaysBetween(ci.Timestamp, at, a.loc) == 0 {
			return false
		}
	}
	return true
}

func (a *Aggregator) ensureMaps(p *entities.UserProgress) {
	if p.QuizScores == nil {
		p.QuizScores = map[string]int{}
	}
	if p.QuizBest == nil {
		p.QuizBest = map[string]int{}
	}
	if p.TimeSpent == nil {
		p.TimeSpent = map[string]int{}
	}
	if p.PracticeCompleted == nil {
		p.PracticeCompleted = map[string]bool{}
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	if p.CheckIns == nil {
		p.CheckIns = []entities.CheckIn{}
	}
}

package httpapi

import (
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

type progressView struct {
	UserID             int64                           `json:"user_id"`
	Track              entities.Track                  `json:"track"`
	Level              int                             `json:"level"`
	XP                 int                             `json:"xp"`
	NextLevelXP        int                             `json:"next_level_xp"`
	Streak             int                             `json:"streak"`
	LongestStreak      int                             `json:"longest_streak"`
	FreezesLeft        int                             `json:"freezes_left"`
	WellnessScore      int                             `json:"wellness_score"`
	EmotionalGrowth    entities.EmotionalGrowthMetrics `json:"emotional_growth"`
	CompletedLessons   []string                        `json:"completed_lessons"`
	QuizScores         map[string]int                  `json:"quiz_scores"`
	LessonsCompleted   int                             `json:"lessons_completed"`
	PracticesCompleted int                             `json:"practices_completed"`
	QuizzesTaken       int                             `json:"quizzes_taken"`
	CheckInsCount      int                             `json:"checkins_count"`
	MinutesSpent       int                             `json:"minutes_spent"`
	LastActiveDate     *time.Time                      `json:"last_active_date,omitempty"`
	Badges             []badgeView                     `json:"badges"`
}

type badgeView struct {
	ID       string     `json:"id"`
	Tier     string     `json:"tier,omitempty"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

type outcomeView struct {
	Progress  progressView `json:"progress"`
	XPGained  int          `json:"xp_gained"`
	LevelUp   bool         `json:"level_up"`
	NewBadges []badgeView  `json:"new_badges"`
	Persisted bool         `json:"persisted"`
}

type catalogBadgeView struct {
	entities.Badge
	Earned      bool     `json:"earned"`
	EarnedTiers []string `json:"earned_tiers,omitempty"`
}

type lessonView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Minutes   int            `json:"minutes"`
	Completed bool           `json:"completed"`
	Practiced bool           `json:"practiced"`
	Score     *int           `json:"quiz_score,omitempty"`
	Questions []questionView `json:"questions,omitempty"`
}

type questionView struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type moduleView struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Track   entities.Track `json:"track"`
	Lessons []lessonView   `json:"lessons"`
}

func (h *handler) progressView(s entities.Snapshot) progressView {
	g := s.Gamification
	v := progressView{
		UserID:             s.Progress.UserID,
		Track:              s.Progress.Track,
		Level:              g.Level(),
		XP:                 g.XP,
		NextLevelXP:        entities.XPForLevel(g.Level() + 1),
		Streak:             g.Streak,
		LongestStreak:      g.LongestStreak,
		FreezesLeft:        g.FreezesLeft(),
		WellnessScore:      g.WellnessScore,
		EmotionalGrowth:    g.EmotionalGrowth,
		CompletedLessons:   s.Progress.CompletedLessons,
		QuizScores:         s.Progress.QuizScores,
		LessonsCompleted:   g.LessonsCompleted,
		PracticesCompleted: g.PracticesCompleted,
		QuizzesTaken:       g.QuizzesTaken,
		CheckInsCount:      g.CheckInsCount,
		MinutesSpent:       g.MinutesSpent,
		Badges:             h.badgeViews(g.Badges),
	}
	if !s.Progress.LastActiveDate.IsZero() {
		last := s.Progress.LastActiveDate
		v.LastActiveDate = &last
	}
	return v
}

func (h *handler) outcomeView(out *gamification.Outcome, persisted bool) outcomeView {
	return outcomeView{
		Progress:  h.progressView(out.Snapshot),
		XPGained:  out.XPGained,
		LevelUp:   out.LeveledUp(),
		NewBadges: h.badgeViews(out.NewBadges),
		Persisted: persisted,
	}
}

func (h *handler) badgeViews(earned []entities.UserBadge) []badgeView {
	out := make([]badgeView, 0, len(earned))
	for _, ub := range earned {
		v := badgeView{ID: ub.BadgeID, Tier: ub.Tier, Title: ub.BadgeID}
		if b, ok := h.badges.Badge(ub.BadgeID); ok {
			v.Title = b.Title
			v.Icon = b.Icon
		}
		if !ub.EarnedAt.IsZero() {
			at := ub.EarnedAt
			v.EarnedAt = &at
		}
		out = append(out, v)
	}
	return out
}

func lessonViewOf(l entities.Lesson, p entities.UserProgress) lessonView {
	v := lessonView{
		ID:        l.ID,
		Title:     l.Title,
		Minutes:   l.Minutes,
		Completed: p.HasCompleted(l.ID),
		Practiced: p.PracticeCompleted[l.ID],
	}
	if score, ok := p.QuizScores[l.ID]; ok {
		v.Score = &score
	}
	if l.Quiz != nil {
		for _, q := range l.Quiz.Questions {
			v.Questions = append(v.Questions, questionView{Text: q.Text, Options: q.Options})
		}
	}
	return v
}

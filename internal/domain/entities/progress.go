package entities

import (
	"math"
	"slices"
	"time"
)

// EmotionalGrowthMetrics are derived from the ordered check-in history only.
type EmotionalGrowthMetrics struct {
	MoodImprovement    float64 `json:"mood_improvement"`    // -9..9, recent mean minus earliest mean
	AnxietyReduction   float64 `json:"anxiety_reduction"`   // -9..9, earliest mean minus recent mean
	EnergyImprovement  float64 `json:"energy_improvement"`  // -9..9
	SleepQuality       float64 `json:"sleep_quality"`       // 0..100, share of recent nights in the healthy range
	EmotionalStability float64 `json:"emotional_stability"` // 0..100, low day-to-day mood swings
	CheckInConsistency float64 `json:"checkin_consistency"` // 0..100, days with a check-in over the observed span
}

// GamificationProgress is the derived gamification state of one user.
type GamificationProgress struct {
	XP                 int                    `json:"xp"`
	Streak             int                    `json:"streak"`
	LongestStreak      int                    `json:"longest_streak"`
	FreezesUsed        int                    `json:"freezes_used"`
	MaxFreezes         int                    `json:"max_freezes"`
	FreezeWindowStart  time.Time              `json:"freeze_window_start"`
	Badges             []UserBadge            `json:"badges"`
	WellnessScore      int                    `json:"wellness_score"` // 0..100
	EmotionalGrowth    EmotionalGrowthMetrics `json:"emotional_growth"`
	LessonsCompleted   int                    `json:"lessons_completed"`
	PracticesCompleted int                    `json:"practices_completed"`
	QuizzesTaken       int                    `json:"quizzes_taken"`
	CheckInsCount      int                    `json:"checkins_count"`
	MinutesSpent       int                    `json:"minutes_spent"`
}

// Level returns the level derived from XP. It is never stored.
func (g GamificationProgress) Level() int {
	return LevelForXP(g.XP)
}

// FreezesLeft returns the number of streak freezes still available.
func (g GamificationProgress) FreezesLeft() int {
	return max(0, g.MaxFreezes-g.FreezesUsed)
}

// HasBadge reports whether the badge (and tier, when non-empty) was already earned.
func (g GamificationProgress) HasBadge(badgeID, tier string) bool {
	return slices.ContainsFunc(g.Badges, func(b UserBadge) bool {
		return b.BadgeID == badgeID && b.Tier == tier
	})
}

// LevelForXP computes floor(sqrt(xp/100)) + 1. Negative XP is treated as zero.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Sqrt(float64(xp) / 100))
	// Guard against float rounding right below perfect squares.
	for (level+1)*(level+1)*100 <= xp {
		level++
	}
	for level > 0 && level*level*100 > xp {
		level--
	}
	return level + 1
}

// XPForLevel returns the minimal XP needed to reach the level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}

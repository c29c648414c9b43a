package gamification

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// FieldFunc reads a named numeric field of a snapshot.
type FieldFunc func(entities.GamificationProgress) float64

// Predicate is a custom badge check over the full snapshot, history included.
type Predicate func(entities.Snapshot) bool

var (
	ErrUnknownField     = errors.New("unknown snapshot field")
	ErrUnknownPredicate = errors.New("unknown custom predicate")
	ErrInvalidBadge     = errors.New("invalid badge definition")
)

// Registry resolves threshold fields and custom predicate IDs used by badge criteria.
// It is filled at startup and read-only afterwards.
type Registry struct {
	fields     map[string]FieldFunc
	predicates map[string]Predicate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fields:     make(map[string]FieldFunc),
		predicates: make(map[string]Predicate),
	}
}

// DefaultRegistry returns a registry with every built-in field and predicate.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterField("xp", func(g entities.GamificationProgress) float64 { return float64(g.XP) })
	r.RegisterField("level", func(g entities.GamificationProgress) float64 { return float64(g.Level()) })
	r.RegisterField("streak", func(g entities.GamificationProgress) float64 { return float64(g.Streak) })
	r.RegisterField("longest_streak", func(g entities.GamificationProgress) float64 { return float64(g.LongestStreak) })
	r.RegisterField("lessons_completed", func(g entities.GamificationProgress) float64 { return float64(g.LessonsCompleted) })
	r.RegisterField("practices_completed", func(g entities.GamificationProgress) float64 { return float64(g.PracticesCompleted) })
	r.RegisterField("quizzes_taken", func(g entities.GamificationProgress) float64 { return float64(g.QuizzesTaken) })
	r.RegisterField("checkins", func(g entities.GamificationProgress) float64 { return float64(g.CheckInsCount) })
	r.RegisterField("minutes_spent", func(g entities.GamificationProgress) float64 { return float64(g.MinutesSpent) })
	r.RegisterField("wellness_score", func(g entities.GamificationProgress) float64 { return float64(g.WellnessScore) })
	r.RegisterField("badges", func(g entities.GamificationProgress) float64 { return float64(len(g.Badges)) })
	r.RegisterField("mood_improvement", func(g entities.GamificationProgress) float64 { return g.EmotionalGrowth.MoodImprovement })
	r.RegisterField("anxiety_reduction", func(g entities.GamificationProgress) float64 { return g.EmotionalGrowth.AnxietyReduction })
	r.RegisterField("energy_improvement", func(g entities.GamificationProgress) float64 { return g.EmotionalGrowth.EnergyImprovement })
	r.RegisterField("sleep_quality", func(g entities.GamificationProgress) float64 { return g.EmotionalGrowth.SleepQuality })
	r.RegisterField("emotional_stability", func(g entities.GamificationProgress) float64 { return g.EmotionalGrowth.EmotionalStability })
	r.RegisterField("checkin_consistency", func(g entities.GamificationProgress) float64 { return g.EmotionalGrowth.CheckInConsistency })

	r.RegisterPredicate("perfect_quiz", func(s entities.Snapshot) bool {
		for _, score := range s.Progress.QuizScores {
			if score == 100 {
				return true
			}
		}
		return false
	})
	r.RegisterPredicate("all_rounder", func(s entities.Snapshot) bool {
		g := s.Gamification
		return g.LessonsCompleted > 0 && g.PracticesCompleted > 0 && g.QuizzesTaken > 0 && g.CheckInsCount > 0
	})
	r.RegisterPredicate("calm_mind", func(s entities.Snapshot) bool {
		return len(s.Progress.CheckIns) >= 5 && s.Gamification.EmotionalGrowth.AnxietyReduction >= 2
	})
	r.RegisterPredicate("well_rested", func(s entities.Snapshot) bool {
		history := s.Progress.CheckIns
		if len(history) < 3 {
			return false
		}
		for _, c := range history[len(history)-3:] {
			if c.SleepHours < 8 {
				return false
			}
		}
		return true
	})
	r.RegisterPredicate("streak_saved", func(s entities.Snapshot) bool {
		return s.Gamification.FreezesUsed > 0 && s.Gamification.Streak >= 2
	})
	r.RegisterPredicate("open_heart", func(s entities.Snapshot) bool {
		return slices.ContainsFunc(s.Progress.CheckIns, func(c entities.CheckIn) bool { return c.Note != "" })
	})

	return r
}

// RegisterField adds or replaces a threshold field.
func (r *Registry) RegisterField(name string, fn FieldFunc) {
	r.fields[name] = fn
}

// RegisterPredicate adds or replaces a custom predicate.
func (r *Registry) RegisterPredicate(id string, fn Predicate) {
	r.predicates[id] = fn
}

// Field returns the reader registered under name.
func (r *Registry) Field(name string) (FieldFunc, bool) {
	fn, ok := r.fields[name]
	return fn, ok
}

// Predicate returns the predicate registered under id.
func (r *Registry) Predicate(id string) (Predicate, bool) {
	fn, ok := r.predicates[id]
	return fn, ok
}

// CheckBadge verifies that a catalog entry can be evaluated with this registry.
func (r *Registry) CheckBadge(b entities.Badge) error {
	if b.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBadge)
	}

	switch b.Criteria.Kind {
	case entities.CriteriaThreshold:
		if _, ok := r.fields[b.Criteria.Field]; !ok {
			return fmt.Errorf("badge %s: %w %q", b.ID, ErrUnknownField, b.Criteria.Field)
		}
	case entities.CriteriaCustom:
		if _, ok := r.predicates[b.Criteria.ID]; !ok {
			return fmt.Errorf("badge %s: %w %q", b.ID, ErrUnknownPredicate, b.Criteria.ID)
		}
		if b.Tiered() {
			return fmt.Errorf("%w: badge %s: tiers need a threshold criterion", ErrInvalidBadge, b.ID)
		}
	default:
		return fmt.Errorf("%w: badge %s: unknown criteria kind %q", ErrInvalidBadge, b.ID, b.Criteria.Kind)
	}

	seen := make(map[string]struct{}, len(b.Tiers))
	for i, t := range b.Tiers {
		if t.Name == "" {
			return fmt.Errorf("%w: badge %s: tier %d has no name", ErrInvalidBadge, b.ID, i)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: badge %s: duplicate tier %q", ErrInvalidBadge, b.ID, t.Name)
		}
		seen[t.Name] = struct{}{}
		if i > 0 && t.Threshold <= b.Tiers[i-1].Threshold {
			return fmt.Errorf("%w: badge %s: tier thresholds must ascend", ErrInvalidBadge, b.ID)
		}
	}

	return nil
}

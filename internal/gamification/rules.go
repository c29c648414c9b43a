package gamification

import (
	"errors"
	"fmt"
)

// WellnessWeights balance the two terms of the wellness score.
type WellnessWeights struct {
	Emotional   float64
	Consistency float64
}

// Rules are the product tuning parameters of the aggregator.
type Rules struct {
	LessonXP   int // awarded on the first completion of a lesson
	QuizMaxXP  int // awarded for a 100% quiz score, proportional below
	PracticeXP int // awarded on the first completion of a practice
	CheckInXP  int // awarded for the first check-in of a calendar day

	MaxFreezes      int // streak freezes available per window
	FreezeResetDays int // window length after which used freezes are restored; 0 disables

	MetricsWindow int     // number of check-ins averaged at each end of the history
	StreakTarget  int     // streak length that counts as full learning consistency
	SleepMinHours float64 // healthy sleep range, inclusive
	SleepMaxHours float64

	Wellness WellnessWeights
}

// DefaultRules returns the tuning used when the config does not override it.
func DefaultRules() Rules {
	return Rules{
		LessonXP:        100,
		QuizMaxXP:       50,
		PracticeXP:      30,
		CheckInXP:       10,
		MaxFreezes:      2,
		FreezeResetDays: 7,
		MetricsWindow:   3,
		StreakTarget:    7,
		SleepMinHours:   8,
		SleepMaxHours:   10,
		Wellness: WellnessWeights{
			Emotional:   0.7,
			Consistency: 0.3,
		},
	}
}

// Validate rejects tuning that would break the aggregator invariants.
func (r Rules) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value int
	}{
		{"lesson_xp", r.LessonXP},
		{"quiz_max_xp", r.QuizMaxXP},
		{"practice_xp", r.PracticeXP},
		{"checkin_xp", r.CheckInXP},
		{"max_freezes", r.MaxFreezes},
		{"freeze_reset_days", r.FreezeResetDays},
		{"streak_target", r.StreakTarget},
	} {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", f.name, f.value))
		}
	}
	if r.MetricsWindow < 1 {
		errs = append(errs, fmt.Errorf("metrics_window must be positive, got %d", r.MetricsWindow))
	}
	if r.SleepMinHours < 0 || r.SleepMaxHours < r.SleepMinHours {
		errs = append(errs, fmt.Errorf("invalid sleep range [%v, %v]", r.SleepMinHours, r.SleepMaxHours))
	}
	if r.Wellness.Emotional < 0 || r.Wellness.Consistency < 0 {
		errs = append(errs, errors.New("wellness weights must not be negative"))
	}
	if r.Wellness.Emotional+r.Wellness.Consistency == 0 {
		errs = append(errs, errors.New("at least one wellness weight must be positive"))
	}
	return errors.Join(errs...)
}

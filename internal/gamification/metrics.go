package gamification

import (
	"math"
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

const maxScaleDelta = 9 // widest possible difference on a 1-10 scale

// computeEmotionalGrowth derives the six sub-scores from the ordered check-in history.
func computeEmotionalGrowth(history []entities.CheckIn, rules Rules, loc *time.Location) entities.EmotionalGrowthMetrics {
	var m entities.EmotionalGrowthMetrics
	if len(history) == 0 {
		return m
	}

	n := min(rules.MetricsWindow, len(history)/2)
	if n > 0 {
		early, recent := history[:n], history[len(history)-n:]
		m.MoodImprovement = trend(early, recent, func(c entities.CheckIn) int { return c.Mood })
		m.AnxietyReduction = trend(recent, early, func(c entities.CheckIn) int { return c.Anxiety })
		m.EnergyImprovement = trend(early, recent, func(c entities.CheckIn) int { return c.Energy })
	}

	m.SleepQuality = sleepQuality(history, rules)
	m.EmotionalStability = emotionalStability(history)
	m.CheckInConsistency = checkInConsistency(history, loc)

	return m
}

// trend is mean(to) - mean(from), clamped to the scale.
func trend(from, to []entities.CheckIn, value func(entities.CheckIn) int) float64 {
	d := mean(to, value) - mean(from, value)
	return round2(clamp(d, -maxScaleDelta, maxScaleDelta))
}

func mean(items []entities.CheckIn, value func(entities.CheckIn) int) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, c := range items {
		sum += value(c)
	}
	return float64(sum) / float64(len(items))
}

// sleepQuality is the share of the recent window spent in the healthy sleep range.
func sleepQuality(history []entities.CheckIn, rules Rules) float64 {
	window := history[max(0, len(history)-rules.MetricsWindow):]
	healthy := 0
	for _, c := range window {
		if c.SleepHours >= rules.SleepMinHours && c.SleepHours <= rules.SleepMaxHours {
			healthy++
		}
	}
	return round2(100 * float64(healthy) / float64(len(window)))
}

// emotionalStability is 100 when mood never changes between consecutive check-ins
// and 0 when it always swings across the whole scale.
func emotionalStability(history []entities.CheckIn) float64 {
	if len(history) < 2 {
		return 0
	}
	total := 0
	for i := 1; i < len(history); i++ {
		d := history[i].Mood - history[i-1].Mood
		if d < 0 {
			d = -d
		}
		total += d
	}
	avg := float64(total) / float64(len(history)-1)
	return round2(clamp(100*(1-avg/maxScaleDelta), 0, 100))
}

// checkInConsistency is the share of calendar days with a check-in between the first and
// the last one.
func checkInConsistency(history []entities.CheckIn, loc *time.Location) float64 {
	first, last := history[0].Timestamp, history[0].Timestamp
	days := make(map[time.Time]struct{}, len(history))
	for _, c := range history {
		if c.Timestamp.Before(first) {
			first = c.Timestamp
		}
		if c.Timestamp.After(last) {
			last = c.Timestamp
		}
		days[entities.StartOfDay(c.Timestamp, loc)] = struct{}{}
	}
	span := entities.CalendarDaysBetween(first, last, loc) + 1
	return round2(clamp(100*float64(len(days))/float64(span), 0, 100))
}

// computeWellness blends the emotional term and the learning-consistency term into 0..100.
func computeWellness(m entities.EmotionalGrowthMetrics, hasCheckIns bool, streak int, rules Rules) int {
	emotional := 0.0
	if hasCheckIns {
		emotional = (normalizeDelta(m.MoodImprovement) +
			normalizeDelta(m.AnxietyReduction) +
			normalizeDelta(m.EnergyImprovement) +
			m.SleepQuality +
			m.EmotionalStability +
			m.CheckInConsistency) / 6
	}

	consistency := 0.0
	if rules.StreakTarget > 0 {
		consistency = 100 * math.Min(1, float64(streak)/float64(rules.StreakTarget))
	}

	weights := rules.Wellness.Emotional + rules.Wellness.Consistency
	if weights <= 0 {
		return 0
	}
	score := (rules.Wellness.Emotional*emotional + rules.Wellness.Consistency*consistency) / weights
	return int(math.Round(clamp(score, 0, 100)))
}

// normalizeDelta maps a -9..9 trend onto 0..100 with no change at 50.
func normalizeDelta(d float64) float64 {
	return (clamp(d, -maxScaleDelta, maxScaleDelta) + maxScaleDelta) / (2 * maxScaleDelta) * 100
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

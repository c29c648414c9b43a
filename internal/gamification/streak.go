package gamification

import (
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// touchStreak records activity on the calendar day of at.
//
//   - same day: unchanged
//   - next day: +1
//   - gap of missed days: one freeze is consumed and the streak continues when a freeze is
//     left, otherwise the streak restarts at 1
//   - a day earlier than the last active one: unchanged
func (a *Aggregator) touchStreak(p *entities.UserProgress, g *entities.GamificationProgress, at time.Time) {
	a.replenishFreezes(g, at)

	today := entities.StartOfDay(at, a.loc).UTC()

	if p.LastActiveDate.IsZero() {
		g.Streak = 1
	} else {
		days := entities.CalendarDaysBetween(p.LastActiveDate, at, a.loc)
		switch {
		case days <= 0:
			return
		case days == 1:
			g.Streak++
		default:
			if g.FreezesLeft() > 0 {
				g.FreezesUsed++
				g.Streak++
			} else {
				g.Streak = 1
			}
		}
	}

	p.LastActiveDate = today
	p.Streak = g.Streak
	g.LongestStreak = max(g.LongestStreak, g.Streak)
}

// replenishFreezes restores used freezes once the current window is over.
func (a *Aggregator) replenishFreezes(g *entities.GamificationProgress, at time.Time) {
	if a.rules.FreezeResetDays <= 0 {
		return
	}

	today := entities.StartOfDay(at, a.loc).UTC()
	if g.FreezeWindowStart.IsZero() {
		g.FreezeWindowStart = today
		return
	}

	if entities.CalendarDaysBetween(g.FreezeWindowStart, at, a.loc) >= a.rules.FreezeResetDays {
		g.FreezesUsed = 0
		g.FreezeWindowStart = today
	}
}

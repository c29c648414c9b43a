package gamification

import (
	"slices"
	"time"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// Evaluator grants badges whose criteria a snapshot satisfies.
type Evaluator struct {
	badges   []entities.Badge
	registry *Registry
}

// NewEvaluator creates an Evaluator over an ordered badge catalog.
func NewEvaluator(badges []entities.Badge, registry *Registry) *Evaluator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Evaluator{
		badges:   slices.Clone(badges),
		registry: registry,
	}
}

// Evaluate appends every newly satisfied badge (or tier) to the snapshot and returns them in
// catalog order. Already earned badges are skipped, so a second call on the result grants
// nothing. Earned badges are never removed.
func (e *Evaluator) Evaluate(s entities.Snapshot, at time.Time) (entities.Snapshot, []entities.UserBadge) {
	next := s.Clone()
	if next.Gamification.Badges == nil {
		next.Gamification.Badges = []entities.UserBadge{}
	}
	at = at.UTC()

	var earned []entities.UserBadge
	// Badges may depend on other badges (the "badges" field), so repeat until nothing changes.
	for range len(e.badges) + 1 {
		granted := e.pass(&next, at)
		if len(granted) == 0 {
			break
		}
		earned = append(earned, granted...)
	}

	return next, earned
}

func (e *Evaluator) pass(s *entities.Snapshot, at time.Time) []entities.UserBadge {
	// Criteria see the snapshot as it was at the start of the pass.
	view := s.Clone()

	var granted []entities.UserBadge
	for _, b := range e.badges {
		if b.Tiered() {
			granted = append(granted, e.tiers(view, b, at)...)
			continue
		}
		if view.Gamification.HasBadge(b.ID, "") || !e.satisfied(view, b.Criteria) {
			continue
		}
		granted = append(granted, entities.UserBadge{BadgeID: b.ID, EarnedAt: at})
	}

	s.Gamification.Badges = append(s.Gamification.Badges, granted...)
	return granted
}

// tiers grants every tier in ascending order whose threshold is met, as long as the
// previous tier is held or granted in the same pass.
func (e *Evaluator) tiers(view entities.Snapshot, b entities.Badge, at time.Time) []entities.UserBadge {
	field, ok := e.registry.Field(b.Criteria.Field)
	if b.Criteria.Kind != entities.CriteriaThreshold || !ok {
		return nil
	}
	value := field(view.Gamification)

	var granted []entities.UserBadge
	for _, t := range b.Tiers {
		if view.Gamification.HasBadge(b.ID, t.Name) {
			continue
		}
		if value < t.Threshold {
			break
		}
		granted = append(granted, entities.UserBadge{BadgeID: b.ID, Tier: t.Name, EarnedAt: at})
	}
	return granted
}

func (e *Evaluator) satisfied(s entities.Snapshot, c entities.Criteria) bool {
	switch c.Kind {
	case entities.CriteriaThreshold:
		field, ok := e.registry.Field(c.Field)
		return ok && field(s.Gamification) >= c.Value
	case entities.CriteriaCustom:
		pred, ok := e.registry.Predicate(c.ID)
		return ok && pred(s)
	default:
		return false
	}
}

package entities

import "time"

// CriteriaKind tags how a badge criterion is evaluated.
type CriteriaKind string

const (
	CriteriaThreshold CriteriaKind = "threshold" // snapshot field >= value
	CriteriaCustom    CriteriaKind = "custom"    // registered predicate looked up by ID
)

// Criteria is a tagged variant: {kind: threshold, field, value} or {kind: custom, id}.
type Criteria struct {
	Kind  CriteriaKind `json:"kind" yaml:"kind"`
	Field string       `json:"field,omitempty" yaml:"field,omitempty"`
	Value float64      `json:"value,omitempty" yaml:"value,omitempty"`
	ID    string       `json:"id,omitempty" yaml:"id,omitempty"`
}

// BadgeTier is one ordered sub-level of a tiered badge.
type BadgeTier struct {
	Name      string  `json:"name" yaml:"name"` // bronze, silver, gold, platinum
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// Badge is an immutable catalog entry.
type Badge struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Icon        string      `json:"icon" yaml:"icon"`
	Category    string      `json:"category" yaml:"category"` // learning, streak, wellbeing, special
	Criteria    Criteria    `json:"criteria" yaml:"criteria"`
	Tiers       []BadgeTier `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// Tiered reports whether the badge has sub-levels.
func (b Badge) Tiered() bool {
	return len(b.Tiers) > 0
}

// UserBadge is an earned badge instance. Earned badges are never revoked.
type UserBadge struct {
	BadgeID  string    `json:"badge_id"`
	Tier     string    `json:"tier,omitempty"`
	EarnedAt time.Time `json:"earned_at"`
}

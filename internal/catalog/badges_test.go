package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

const sampleBadges = `
badges:
  - id: first_steps
    title: First steps
    category: learning
    criteria: {kind: threshold, field: lessons_completed, value: 1}
  - id: xp_hunter
    category: learning
    criteria: {kind: threshold, field: xp}
    tiers:
      - {name: bronze, threshold: 500}
      - {name: silver, threshold: 2000}
  - id: perfectionist
    category: learning
    criteria: {kind: custom, id: perfect_quiz}
`

func TestParseBadges(t *testing.T) {
	c, err := ParseBadges([]byte(sampleBadges), gamification.DefaultRegistry())
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "first_steps", all[0].ID)
	assert.Equal(t, entities.Criteria{Kind: entities.CriteriaThreshold, Field: "lessons_completed", Value: 1}, all[0].Criteria)
	assert.Equal(t, []entities.BadgeTier{{Name: "bronze", Threshold: 500}, {Name: "silver", Threshold: 2000}}, all[1].Tiers)
	assert.Equal(t, entities.Criteria{Kind: entities.CriteriaCustom, ID: "perfect_quiz"}, all[2].Criteria)

	all[1].Tiers[0].Threshold = 1
	b, ok := c.Badge("xp_hunter")
	require.True(t, ok)
	assert.Equal(t, 500.0, b.Tiers[0].Threshold)

	_, ok = c.Badge("unknown")
	assert.False(t, ok)
}

func TestParseBadges_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", `badges: []`, nil},
		{"broken yaml", "badges: [", nil},
		{
			"duplicate id",
			`
badges:
  - {id: a, criteria: {kind: threshold, field: xp, value: 1}}
  - {id: a, criteria: {kind: threshold, field: xp, value: 2}}
`,
			nil,
		},
		{
			"unknown field",
			`
badges:
  - {id: a, criteria: {kind: threshold, field: karma, value: 1}}
`,
			gamification.ErrUnknownField,
		},
		{
			"unknown predicate",
			`
badges:
  - {id: a, criteria: {kind: custom, id: lucky}}
`,
			gamification.ErrUnknownPredicate,
		},
		{
			"non ascending tiers",
			`
badges:
  - id: a
    criteria: {kind: threshold, field: xp}
    tiers: [{name: bronze, threshold: 10}, {name: silver, threshold: 10}]
`,
			gamification.ErrInvalidBadge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBadges([]byte(tt.data), gamification.DefaultRegistry())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadBadges_ShippedCatalog(t *testing.T) {
	c, err := LoadBadges("../../assets/data/badges.yaml", gamification.DefaultRegistry())
	require.NoError(t, err)
	assert.NotEmpty(t, c.All())
}

package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// BadgeChecker validates a badge definition against the known criteria.
type BadgeChecker interface {
	CheckBadge(b entities.Badge) error
}

// BadgeCatalog is the ordered, immutable list of badges.
type BadgeCatalog struct {
	badges []entities.Badge
}

// LoadBadges reads the badge catalog from a YAML file.
func LoadBadges(path string, checker BadgeChecker) (*BadgeCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read badges: %w", err)
	}
	return ParseBadges(data, checker)
}

// ParseBadges decodes and validates a YAML badge catalog.
func ParseBadges(data []byte, checker BadgeChecker) (*BadgeCatalog, error) {
	var wrapper struct {
		Badges []entities.Badge `yaml:"badges"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal badges YAML: %w", err)
	}
	if len(wrapper.Badges) == 0 {
		return nil, errors.New("badge catalog is empty")
	}

	seen := make(map[string]struct{}, len(wrapper.Badges))
	for _, b := range wrapper.Badges {
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("duplicate badge id %q", b.ID)
		}
		seen[b.ID] = struct{}{}

		if err := checker.CheckBadge(b); err != nil {
			return nil, err
		}
	}

	return &BadgeCatalog{badges: wrapper.Badges}, nil
}

// All returns the badges in catalog order.
func (c *BadgeCatalog) All() []entities.Badge {
	out := make([]entities.Badge, len(c.badges))
	for i, b := range c.badges {
		b.Tiers = slices.Clone(b.Tiers)
		out[i] = b
	}
	return out
}

// Badge returns the badge by id.
func (c *BadgeCatalog) Badge(id string) (entities.Badge, bool) {
	for _, b := range c.badges {
		if b.ID == id {
			b.Tiers = slices.Clone(b.Tiers)
			return b, true
		}
	}
	return entities.Badge{}, false
}

package gamification

import (
	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

// Outcome is what the presentation layer receives after one event.
type Outcome struct {
	Snapshot      entities.Snapshot
	NewBadges     []entities.UserBadge
	XPGained      int
	PreviousLevel int
}

// Level returns the level of the updated snapshot.
func (o Outcome) Level() int {
	return o.Snapshot.Gamification.Level()
}

// LeveledUp reports whether the event moved the user to a higher level.
func (o Outcome) LeveledUp() bool {
	return o.Level() > o.PreviousLevel
}

// Engine runs event → aggregate → badge evaluation for one snapshot.
type Engine struct {
	ingestor   *Ingestor
	aggregator *Aggregator
	evaluator  *Evaluator
}

func NewEngine(ingestor *Ingestor, aggregator *Aggregator, evaluator *Evaluator) *Engine {
	return &Engine{
		ingestor:   ingestor,
		aggregator: aggregator,
		evaluator:  evaluator,
	}
}

// NewSnapshot creates the state of a user on first interaction.
func (e *Engine) NewSnapshot(userID int64, track entities.Track) entities.Snapshot {
	return entities.NewSnapshot(userID, track, e.aggregator.Rules().MaxFreezes)
}

// Process validates ev and applies it to s. On a validation error s is left untouched
// and the zero Outcome is returned.
func (e *Engine) Process(s entities.Snapshot, ev Event) (Outcome, error) {
	valid, err := e.ingestor.Ingest(ev)
	if err != nil {
		return Outcome{}, err
	}

	previous := s.Gamification.Level()

	next, gained := e.aggregator.Apply(s, valid)
	next, badges := e.evaluator.Evaluate(next, valid.OccurredAt())

	return Outcome{
		Snapshot:      next,
		NewBadges:     badges,
		XPGained:      gained,
		PreviousLevel: previous,
	}, nil
}

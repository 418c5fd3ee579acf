package duel

import (
	"slices"

	"github.com/samber/lo"
)

type Move struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Power    int    `json:"power" yaml:"power"`
	Accuracy int    `json:"accuracy" yaml:"accuracy"`
	Category string `json:"category" yaml:"category"`
}

// MoveCatalog is every move a combatant could be handed, grouped by the move's type
type MoveCatalog struct {
	// MovesByType is a map of type names to the moves of that type
	MovesByType map[string][]Move
}

func NewMoveCatalog(moves []Move) MoveCatalog {
	return MoveCatalog{MovesByType: lo.GroupBy(moves, func(m Move) string {
		return m.Type
	})}
}

func (c MoveCatalog) Len() int {
	return lo.SumBy(lo.Values(c.MovesByType), func(moves []Move) int {
		return len(moves)
	})
}

func (c MoveCatalog) lookupMove(name string) *Move {
	for _, moves := range c.MovesByType {
		for _, move := range moves {
			if move.Name == name {
				return &move
			}
		}
	}

	return nil
}

// Candidates returns the moves of each of the given types followed by the normal type moves.
// Normal moves are always included (even twice, if a combatant is normal type) so nobody ends up with an empty list
// as long as the catalog has normal moves.
func (c MoveCatalog) Candidates(types []string) []Move {
	candidates := make([]Move, 0)

	for _, typeName := range types {
		candidates = append(candidates, c.MovesByType[typeName]...)
	}

	candidates = append(candidates, c.MovesByType[TYPENAME_NORMAL]...)

	return candidates
}

// SampleMovePool draws up to MOVE_POOL_SIZE candidate moves (without replacement) for a combatant.
// When the catalog has nothing to offer, DEFAULT_MOVES are used instead.
func (c MoveCatalog) SampleMovePool(combatant Combatant, rng Rng) []Move {
	candidates := c.Candidates(combatant.Types)

	if len(candidates) == 0 {
		internalLogger.Info("No candidate moves for combatant, using defaults", "combatant", combatant.Name, "types", combatant.Types)
		return slices.Clone(DEFAULT_MOVES)
	}

	// partial Fisher-Yates so the draw uses the battle's rng
	for i := 0; i < len(candidates) && i < MOVE_POOL_SIZE; i++ {
		j := i + rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	pool := candidates[:min(MOVE_POOL_SIZE, len(candidates))]

	internalLogger.V(1).Info("Sampled move pool", "combatant", combatant.Name, "moves", lo.Map(pool, func(m Move, _ int) string {
		return m.Name
	}))

	return pool
}

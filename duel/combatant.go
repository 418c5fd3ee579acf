package duel

import (
	"errors"
	"maps"
	"math"
	"slices"

	"github.com/samber/lo"
)

var (
	ErrSelfBattle = errors.New("a combatant cannot battle itself")
	ErrNoStats    = errors.New("combatant has no stats")
)

// BaseStats maps stat names (STAT_HP, STAT_ATTACK, ...) to their base values
type BaseStats map[string]int

// Combatant is the snapshot of a Pokemon that gets entered into a battle. It is never changed by the engine.
type Combatant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Types     []string  `json:"types"`
	BaseStats BaseStats `json:"stats"`
}

// Clone makes a copy that doesn't share the types slice or the stat map
func (c Combatant) Clone() Combatant {
	newCombatant := c
	newCombatant.Types = slices.Clone(c.Types)
	newCombatant.BaseStats = maps.Clone(c.BaseStats)

	return newCombatant
}

func (c Combatant) IsNil() bool {
	return c.ID == 0 && c.Name == ""
}

// Stat gets a stat for use in battle math. Missing (or zero) stats fall back to FALLBACK_STAT.
func (c Combatant) Stat(name string) int {
	value, ok := c.BaseStats[name]
	if !ok || value <= 0 {
		return FALLBACK_STAT
	}

	return value
}

// RawStat gets a stat with no fallback applied
func (c Combatant) RawStat(name string) int {
	return c.BaseStats[name]
}

// TotalStats is the sum of every base stat, falling back to FALLBACK_TOTAL when there's nothing to add up
func (c Combatant) TotalStats() int {
	total := lo.Sum(lo.Values(c.BaseStats))
	if total <= 0 {
		return FALLBACK_TOTAL
	}

	return total
}

// Level is derived from total stats and is not a "real" Pokemon level
func (c Combatant) Level() int {
	return c.TotalStats()/30 + 1
}

// MaxHealth is the starting (and highest) health of a combatant in a battle
func (c Combatant) MaxHealth() int {
	hp := c.Stat(STAT_HP)
	defense := c.Stat(STAT_DEFENSE)
	spDef := c.Stat(STAT_SPDEF)

	totalHp := int(math.Floor(float64(hp)*1.2)) + (defense+spDef)/6 + c.Level()*3 + 40

	return max(MIN_MAX_HEALTH, min(MAX_MAX_HEALTH, totalHp))
}

func (c Combatant) HasType(typeName string) bool {
	return slices.Contains(c.Types, typeName)
}

// ValidatePair checks two combatants before they get handed to the engine.
// The engine itself never rejects input, so callers are expected to do this.
func ValidatePair(c1 Combatant, c2 Combatant) error {
	if c1.ID == c2.ID {
		return ErrSelfBattle
	}

	if len(c1.BaseStats) == 0 || len(c2.BaseStats) == 0 {
		return ErrNoStats
	}

	return nil
}

// Fighter is a Combatant with everything that only gets computed once per battle
type Fighter struct {
	Combatant Combatant
	MaxHealth int
	Level     int
	MovePool  []Move
}

func NewFighter(c Combatant, movePool []Move) Fighter {
	snapshot := c.Clone()

	return Fighter{
		Combatant: snapshot,
		MaxHealth: snapshot.MaxHealth(),
		Level:     snapshot.Level(),
		MovePool:  slices.Clone(movePool),
	}
}

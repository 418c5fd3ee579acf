package duel

import (
	"math"
	"slices"
)

type TypeMatchup struct {
	StrongAgainst []string
	WeakAgainst   []string
}

// TYPE_CHART maps an attacking type to the defending types it does extra or reduced damage against.
// Normal has no entries on purpose and will always be neutral.
var TYPE_CHART = map[string]TypeMatchup{
	TYPENAME_NORMAL: {},
	TYPENAME_FIRE: {
		StrongAgainst: []string{TYPENAME_GRASS, TYPENAME_ICE, TYPENAME_BUG},
		WeakAgainst:   []string{TYPENAME_WATER, TYPENAME_ROCK, TYPENAME_DRAGON},
	},
	TYPENAME_WATER: {
		StrongAgainst: []string{TYPENAME_FIRE, TYPENAME_GROUND, TYPENAME_ROCK},
		WeakAgainst:   []string{TYPENAME_GRASS, TYPENAME_DRAGON},
	},
	TYPENAME_GRASS: {
		StrongAgainst: []string{TYPENAME_WATER, TYPENAME_GROUND, TYPENAME_ROCK},
		WeakAgainst:   []string{TYPENAME_FIRE, TYPENAME_POISON, TYPENAME_FLYING, TYPENAME_BUG, TYPENAME_DRAGON, TYPENAME_STEEL},
	},
	TYPENAME_ELECTRIC: {
		StrongAgainst: []string{TYPENAME_WATER, TYPENAME_FLYING},
		WeakAgainst:   []string{TYPENAME_GRASS, TYPENAME_DRAGON},
	},
	TYPENAME_ICE: {
		StrongAgainst: []string{TYPENAME_GRASS, TYPENAME_GROUND, TYPENAME_FLYING, TYPENAME_DRAGON},
		WeakAgainst:   []string{TYPENAME_FIRE, TYPENAME_WATER, TYPENAME_STEEL},
	},
	TYPENAME_FIGHTING: {
		StrongAgainst: []string{TYPENAME_NORMAL, TYPENAME_ROCK, TYPENAME_STEEL, TYPENAME_ICE, TYPENAME_DARK},
		WeakAgainst:   []string{TYPENAME_POISON, TYPENAME_FLYING, TYPENAME_PSYCHIC, TYPENAME_BUG, TYPENAME_FAIRY},
	},
	TYPENAME_POISON: {
		StrongAgainst: []string{TYPENAME_GRASS, TYPENAME_FAIRY},
		WeakAgainst:   []string{TYPENAME_POISON, TYPENAME_GROUND, TYPENAME_ROCK, TYPENAME_GHOST, TYPENAME_STEEL},
	},
	TYPENAME_GROUND: {
		StrongAgainst: []string{TYPENAME_POISON, TYPENAME_ROCK, TYPENAME_STEEL, TYPENAME_FIRE, TYPENAME_ELECTRIC},
		WeakAgainst:   []string{TYPENAME_GRASS, TYPENAME_BUG},
	},
	TYPENAME_FLYING: {
		StrongAgainst: []string{TYPENAME_FIGHTING, TYPENAME_BUG, TYPENAME_GRASS},
		WeakAgainst:   []string{TYPENAME_ELECTRIC, TYPENAME_ROCK, TYPENAME_STEEL},
	},
	TYPENAME_PSYCHIC: {
		StrongAgainst: []string{TYPENAME_FIGHTING, TYPENAME_POISON},
		WeakAgainst:   []string{TYPENAME_STEEL, TYPENAME_PSYCHIC},
	},
	TYPENAME_BUG: {
		StrongAgainst: []string{TYPENAME_GRASS, TYPENAME_PSYCHIC, TYPENAME_DARK},
		WeakAgainst:   []string{TYPENAME_FIRE, TYPENAME_FIGHTING, TYPENAME_POISON, TYPENAME_FLYING, TYPENAME_GHOST, TYPENAME_STEEL, TYPENAME_FAIRY},
	},
	TYPENAME_ROCK: {
		StrongAgainst: []string{TYPENAME_FLYING, TYPENAME_BUG, TYPENAME_FIRE, TYPENAME_ICE},
		WeakAgainst:   []string{TYPENAME_FIGHTING, TYPENAME_GROUND, TYPENAME_STEEL},
	},
	TYPENAME_GHOST: {
		StrongAgainst: []string{TYPENAME_GHOST, TYPENAME_PSYCHIC},
		WeakAgainst:   []string{TYPENAME_DARK},
	},
	TYPENAME_DRAGON: {
		StrongAgainst: []string{TYPENAME_DRAGON},
		WeakAgainst:   []string{TYPENAME_STEEL},
	},
	TYPENAME_DARK: {
		StrongAgainst: []string{TYPENAME_GHOST, TYPENAME_PSYCHIC},
		WeakAgainst:   []string{TYPENAME_FIGHTING, TYPENAME_DARK, TYPENAME_FAIRY},
	},
	TYPENAME_STEEL: {
		StrongAgainst: []string{TYPENAME_ROCK, TYPENAME_ICE, TYPENAME_FAIRY},
		WeakAgainst:   []string{TYPENAME_FIRE, TYPENAME_WATER, TYPENAME_ELECTRIC, TYPENAME_STEEL},
	},
	TYPENAME_FAIRY: {
		StrongAgainst: []string{TYPENAME_FIGHTING, TYPENAME_DRAGON, TYPENAME_DARK},
		WeakAgainst:   []string{TYPENAME_POISON, TYPENAME_STEEL},
	},
}

// PairEffectiveness gives the multiplier of a single attacking type against a single defending type.
// Types that aren't in the chart are neutral.
func PairEffectiveness(attackType string, defenseType string) float64 {
	matchup, ok := TYPE_CHART[attackType]
	if !ok {
		return 1
	}

	if slices.Contains(matchup.StrongAgainst, defenseType) {
		return STRONG_MULTIPLIER
	}

	if slices.Contains(matchup.WeakAgainst, defenseType) {
		return WEAK_MULTIPLIER
	}

	return 1
}

// Effectiveness compounds the multiplier of every attacker type against every defender type and
// then clamps the result. Note that it is the attacker's own types that count here, not the move's type.
func Effectiveness(attackerTypes []string, defenderTypes []string) float64 {
	multiplier := 1.0

	for _, attackType := range attackerTypes {
		for _, defenseType := range defenderTypes {
			multiplier *= PairEffectiveness(attackType, defenseType)
		}
	}

	return math.Max(MIN_EFFECTIVENESS, math.Min(MAX_EFFECTIVENESS, multiplier))
}

// EffectivenessTier turns a multiplier into the label shown to the user
func EffectivenessTier(multiplier float64) string {
	if multiplier > 1 {
		return EFFECTIVENESS_SUPER
	}

	if multiplier < 1 {
		return EFFECTIVENESS_NOT_VERY
	}

	return EFFECTIVENESS_NORMAL
}

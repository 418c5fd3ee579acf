package duel

import "math"

// scriptedRng hands out queued values in order. Once a queue runs dry it returns
// the middle of the range for ints (a jitter of 0) and 0.5 for floats (never a crit).
type scriptedRng struct {
	ints   []int
	floats []float64
}

func (r *scriptedRng) IntN(n int) int {
	if len(r.ints) == 0 {
		return n / 2
	}

	v := r.ints[0]
	r.ints = r.ints[1:]

	return min(v, n-1)
}

func (r *scriptedRng) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}

	v := r.floats[0]
	r.floats = r.floats[1:]

	return v
}

// highSource makes a *rand.Rand return the top of every range: no crits, +3 jitter, last move in the pool
type highSource struct{}

func (highSource) Uint64() uint64 {
	return math.MaxUint64
}

var (
	tackle = Move{Name: "Tackle", Type: TYPENAME_NORMAL, Power: 40, Accuracy: 100, Category: CATEGORY_PHYSICAL}
	ember  = Move{Name: "Ember", Type: TYPENAME_FIRE, Power: 40, Accuracy: 100, Category: CATEGORY_SPECIAL}
	growl  = Move{Name: "Growl", Type: TYPENAME_NORMAL, Power: 0, Accuracy: 100, Category: CATEGORY_STATUS}
)

func getBulbasaur() Combatant {
	return Combatant{
		ID:    1,
		Name:  "bulbasaur",
		Types: []string{TYPENAME_GRASS, TYPENAME_POISON},
		BaseStats: BaseStats{
			STAT_HP:       45,
			STAT_ATTACK:   49,
			STAT_DEFENSE:  49,
			STAT_SPATTACK: 65,
			STAT_SPDEF:    65,
			STAT_SPEED:    45,
		},
	}
}

func getCharmander() Combatant {
	return Combatant{
		ID:    4,
		Name:  "charmander",
		Types: []string{TYPENAME_FIRE},
		BaseStats: BaseStats{
			STAT_HP:       39,
			STAT_ATTACK:   52,
			STAT_DEFENSE:  43,
			STAT_SPATTACK: 60,
			STAT_SPDEF:    50,
			STAT_SPEED:    65,
		},
	}
}

// getNeutral returns a normal type combatant with every stat set to value
func getNeutral(id int, name string, value int) Combatant {
	stats := make(BaseStats, len(STAT_NAMES))
	for _, statName := range STAT_NAMES {
		stats[statName] = value
	}

	return Combatant{ID: id, Name: name, Types: []string{TYPENAME_NORMAL}, BaseStats: stats}
}

func getStarterCatalog() MoveCatalog {
	return NewMoveCatalog([]Move{tackle, ember})
}

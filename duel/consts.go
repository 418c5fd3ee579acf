package duel

const (
	CATEGORY_PHYSICAL = "physical"
	CATEGORY_SPECIAL  = "special"
	CATEGORY_STATUS   = "status"
)

const (
	TYPENAME_NORMAL   = "normal"
	TYPENAME_FIRE     = "fire"
	TYPENAME_WATER    = "water"
	TYPENAME_ELECTRIC = "electric"
	TYPENAME_GRASS    = "grass"
	TYPENAME_ICE      = "ice"
	TYPENAME_FIGHTING = "fighting"
	TYPENAME_POISON   = "poison"
	TYPENAME_GROUND   = "ground"
	TYPENAME_FLYING   = "flying"
	TYPENAME_PSYCHIC  = "psychic"
	TYPENAME_BUG      = "bug"
	TYPENAME_ROCK     = "rock"
	TYPENAME_GHOST    = "ghost"
	TYPENAME_DRAGON   = "dragon"
	TYPENAME_DARK     = "dark"
	TYPENAME_STEEL    = "steel"
	TYPENAME_FAIRY    = "fairy"
)

// Stat names as they show up in roster data
const (
	STAT_HP        = "hp"
	STAT_ATTACK    = "attack"
	STAT_DEFENSE   = "defense"
	STAT_SPATTACK  = "special-attack"
	STAT_SPDEF     = "special-defense"
	STAT_SPEED     = "speed"
	FALLBACK_STAT  = 50
	FALLBACK_TOTAL = 300
)

var STAT_NAMES = []string{STAT_HP, STAT_ATTACK, STAT_DEFENSE, STAT_SPATTACK, STAT_SPDEF, STAT_SPEED}

const (
	MIN_MAX_HEALTH = 60
	MAX_MAX_HEALTH = 180

	MIN_BASE_DAMAGE  = 8
	MIN_FINAL_DAMAGE = 3

	CRIT_CHANCE     = 0.08
	CRIT_MULTIPLIER = 1.3

	JITTER_RANGE = 3

	STRONG_MULTIPLIER = 1.5
	WEAK_MULTIPLIER   = 0.7
	MIN_EFFECTIVENESS = 0.5
	MAX_EFFECTIVENESS = 1.5

	MOVE_POOL_SIZE = 4
)

const (
	EFFECTIVENESS_SUPER    = "super-effective"
	EFFECTIVENESS_NOT_VERY = "not-very-effective"
	EFFECTIVENESS_NORMAL   = "normal"
)

const (
	SIDE_ONE = 0
	SIDE_TWO = 1
	NO_SIDE  = -1
)

const (
	MAX_LOG_LINES             = 8
	DEFAULT_STRUGGLE_POWER    = 50
	DEFAULT_STRUGGLE_ACCURACY = 100
)

// battle state machine
const (
	PHASE_SETUP = iota
	PHASE_ROUND_IN_PROGRESS
	PHASE_COMPLETE
)

// STRUGGLE is used when a fighter somehow ends up with nothing to attack with
var STRUGGLE = Move{
	Name:     "Struggle",
	Type:     TYPENAME_NORMAL,
	Power:    DEFAULT_STRUGGLE_POWER,
	Accuracy: DEFAULT_STRUGGLE_ACCURACY,
	Category: CATEGORY_PHYSICAL,
}

// DEFAULT_MOVES is handed out when the catalog has nothing for a combatant's types
var DEFAULT_MOVES = []Move{
	{Name: "Tackle", Type: TYPENAME_NORMAL, Power: 40, Accuracy: 100, Category: CATEGORY_PHYSICAL},
	{Name: "Scratch", Type: TYPENAME_NORMAL, Power: 40, Accuracy: 100, Category: CATEGORY_PHYSICAL},
}

package duel

import (
	"math"

	"github.com/go-logr/logr"
)

var damageLogger = func() logr.Logger {
	return internalLogger.WithName("damage")
}

// BaseDamage is the damage of a move before crits, type effectiveness, and random spread are applied.
// Status moves skip the formula entirely and just use their power.
func BaseDamage(attacker Fighter, defender Fighter, move Move) float64 {
	var a, d int

	switch move.Category {
	case CATEGORY_PHYSICAL:
		a = attacker.Combatant.Stat(STAT_ATTACK)
		d = defender.Combatant.Stat(STAT_DEFENSE)
	case CATEGORY_SPECIAL:
		a = attacker.Combatant.Stat(STAT_SPATTACK)
		d = defender.Combatant.Stat(STAT_SPDEF)
	default:
		return float64(move.Power)
	}

	// level is recomputed from the attacker's stats rather than trusting anything stored
	attackerLevel := attacker.Combatant.Level()

	offense := float64(a+attackerLevel*2) * float64(move.Power) / 100
	mitigation := 100 / (100 + float64(d)*0.6)

	return math.Max(MIN_BASE_DAMAGE, math.Floor(offense*mitigation))
}

// Damage calculates the damage an attacking fighter does to a defending fighter with a move.
// crit and spread are passed in so that this function stays free of randomness.
func Damage(attacker Fighter, defender Fighter, move Move, crit bool, spread int) (int, float64) {
	baseDamage := BaseDamage(attacker, defender, move)

	critBoost := 1.0
	if crit {
		critBoost = CRIT_MULTIPLIER
	}

	effectiveness := Effectiveness(attacker.Combatant.Types, defender.Combatant.Types)

	damage := roundHalfUp(baseDamage*critBoost*effectiveness + float64(spread))
	finalDamage := max(MIN_FINAL_DAMAGE, int(damage))

	damageLogger().V(2).Info("final damage",
		"move", move.Name,
		"category", move.Category,
		"power", move.Power,
		"baseDamage", baseDamage,
		"crit", critBoost,
		"effectiveness", effectiveness,
		"spread", spread,
		"damage", finalDamage)

	return finalDamage, effectiveness
}

// roundHalfUp rounds .5 up (towards positive infinity), including for negative numbers
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

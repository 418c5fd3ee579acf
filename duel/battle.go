package duel

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

// RoundOutcome is everything that happened in a single round. Exactly one side takes damage per round.
type RoundOutcome struct {
	Round          int     `json:"round"`
	AttackerSide   int     `json:"attackerSide"`
	AttackerID     int     `json:"attackerId"`
	AttackerName   string  `json:"attackerName"`
	DefenderSide   int     `json:"defenderSide"`
	DefenderID     int     `json:"defenderId"`
	DefenderName   string  `json:"defenderName"`
	Move           Move    `json:"move"`
	Damage         int     `json:"damage"`
	Critical       bool    `json:"critical"`
	Effectiveness  string  `json:"effectiveness"`
	Multiplier     float64 `json:"multiplier"`
	DefenderHealth int     `json:"defenderHealth"`
}

type BattleResult struct {
	WinnerID    int            `json:"winnerId"`
	WinnerName  string         `json:"winnerName"`
	WinnerSide  int            `json:"winnerSide"`
	LoserID     int            `json:"loserId"`
	LoserName   string         `json:"loserName"`
	Rounds      []RoundOutcome `json:"rounds"`
	TotalDamage int            `json:"totalDamage"`
	FinalHealth [2]int         `json:"finalHealth"`
}

// BattleState is only ever owned by a single battle
type BattleState struct {
	Fighters       [2]Fighter
	Health         [2]int
	RoundLog       []RoundOutcome
	ActiveAttacker int
	Phase          int
}

// Clone creates a copy of this state, handling new slice creation
func (s BattleState) Clone() BattleState {
	newState := s
	newState.RoundLog = slices.Clone(s.RoundLog)

	return newState
}

// Over is true once either side has run out of health
func (s BattleState) Over() bool {
	return s.Health[SIDE_ONE] <= 0 || s.Health[SIDE_TWO] <= 0
}

// Winner returns the side that still has health, or NO_SIDE if the battle is still going
func (s BattleState) Winner() int {
	if !s.Over() {
		return NO_SIDE
	}

	if s.Health[SIDE_ONE] > 0 {
		return SIDE_ONE
	}

	return SIDE_TWO
}

func (s BattleState) Result() (BattleResult, bool) {
	if s.Phase != PHASE_COMPLETE {
		return BattleResult{}, false
	}

	winner := s.Winner()
	loser := otherSide(winner)
	totalDamage := lo.SumBy(s.RoundLog, func(r RoundOutcome) int {
		return r.Damage
	})

	return BattleResult{
		WinnerID:    s.Fighters[winner].Combatant.ID,
		WinnerName:  s.Fighters[winner].Combatant.Name,
		WinnerSide:  winner,
		LoserID:     s.Fighters[loser].Combatant.ID,
		LoserName:   s.Fighters[loser].Combatant.Name,
		Rounds:      slices.Clone(s.RoundLog),
		TotalDamage: totalDamage,
		FinalHealth: s.Health,
	}, true
}

type SideStatus struct {
	Name       string `json:"name"`
	CurrentHP  int    `json:"currentHp"`
	MaxHP      int    `json:"maxHp"`
	Percentage int    `json:"percentage"`
}

func (s BattleState) Status() [2]SideStatus {
	var status [2]SideStatus

	for side, fighter := range s.Fighters {
		percentage := 0
		if fighter.MaxHealth > 0 {
			percentage = int(roundHalfUp(float64(s.Health[side]) / float64(fighter.MaxHealth) * 100))
		}

		status[side] = SideStatus{
			Name:       fighter.Combatant.Name,
			CurrentHP:  s.Health[side],
			MaxHP:      fighter.MaxHealth,
			Percentage: percentage,
		}
	}

	return status
}

func otherSide(side int) int {
	if side == SIDE_ONE {
		return SIDE_TWO
	}

	return SIDE_ONE
}

type Engine struct {
	Catalog MoveCatalog
}

func NewEngine(catalog MoveCatalog) Engine {
	return Engine{Catalog: catalog}
}

// Prepare computes everything about a combatant that stays fixed for a battle
func (e Engine) Prepare(c Combatant, rng Rng) Fighter {
	return NewFighter(c, e.Catalog.SampleMovePool(c, rng))
}

// InitializeBattle builds the starting state for a battle. Both sides start at max health and side one attacks first.
func (e Engine) InitializeBattle(c1 Combatant, c2 Combatant, rng Rng) BattleState {
	f1 := e.Prepare(c1, rng)
	f2 := e.Prepare(c2, rng)

	internalLogger.Info("Initialized battle",
		"combatant1", f1.Combatant.Name,
		"combatant2", f2.Combatant.Name,
		"maxHp1", f1.MaxHealth,
		"maxHp2", f2.MaxHealth,
	)

	return BattleState{
		Fighters:       [2]Fighter{f1, f2},
		Health:         [2]int{f1.MaxHealth, f2.MaxHealth},
		RoundLog:       make([]RoundOutcome, 0),
		ActiveAttacker: SIDE_ONE,
		Phase:          PHASE_SETUP,
	}
}

// ResolveRound works out what happens when attacker hits defender. The state is not changed,
// the returned outcome already contains what the defender's health will be once applied.
func ResolveRound(state *BattleState, attacker int, defender int, rng Rng) RoundOutcome {
	attackingFighter := state.Fighters[attacker]
	defendingFighter := state.Fighters[defender]

	move := STRUGGLE
	if len(attackingFighter.MovePool) > 0 {
		move = attackingFighter.MovePool[rng.IntN(len(attackingFighter.MovePool))]
	}

	crit := rng.Float64() < CRIT_CHANCE
	damage, multiplier := Damage(attackingFighter, defendingFighter, move, crit, jitter(rng))

	return RoundOutcome{
		Round:          len(state.RoundLog) + 1,
		AttackerSide:   attacker,
		AttackerID:     attackingFighter.Combatant.ID,
		AttackerName:   attackingFighter.Combatant.Name,
		DefenderSide:   defender,
		DefenderID:     defendingFighter.Combatant.ID,
		DefenderName:   defendingFighter.Combatant.Name,
		Move:           move,
		Damage:         damage,
		Critical:       crit,
		Effectiveness:  EffectivenessTier(multiplier),
		Multiplier:     multiplier,
		DefenderHealth: max(0, state.Health[defender]-damage),
	}
}

// advance plays a single round and applies it to the state. The boolean is false when the battle was already over.
func advance(state *BattleState, rng Rng) (RoundOutcome, bool) {
	if state.Phase == PHASE_COMPLETE {
		return RoundOutcome{}, false
	}

	state.Phase = PHASE_ROUND_IN_PROGRESS

	attacker := state.ActiveAttacker
	defender := otherSide(attacker)

	outcome := ResolveRound(state, attacker, defender, rng)
	state.Health[defender] = outcome.DefenderHealth
	state.RoundLog = append(state.RoundLog, outcome)

	internalLogger.V(1).Info("Round resolved",
		"round", outcome.Round,
		"attacker", outcome.AttackerName,
		"move", outcome.Move.Name,
		"damage", outcome.Damage,
		"defenderHealth", outcome.DefenderHealth,
	)

	// last attacker defends next round
	state.ActiveAttacker = defender

	if state.Over() {
		state.Phase = PHASE_COMPLETE
		internalLogger.Info("Battle over", "winner", state.Fighters[state.Winner()].Combatant.Name, "rounds", len(state.RoundLog))
	}

	return outcome, true
}

// RunBattle plays a whole battle to the end with no pacing
func (e Engine) RunBattle(c1 Combatant, c2 Combatant, rng Rng) BattleResult {
	state := e.InitializeBattle(c1, c2, rng)

	for {
		if _, ok := advance(&state, rng); !ok {
			break
		}
	}

	result, _ := state.Result()
	return result
}

// Battle hands out rounds one at a time so that whoever is showing them can go at their own pace.
// A Battle is built from a seed, so Reset replays the exact same rounds.
type Battle struct {
	engine     Engine
	combatants [2]Combatant
	seed       rand.PCG

	// the rng reads from source, which is a copy of seed
	source rand.PCG
	rng    *rand.Rand

	state  BattleState
	result *BattleResult
}

func (e Engine) NewBattle(c1 Combatant, c2 Combatant, seed rand.PCG) *Battle {
	b := &Battle{
		engine:     e,
		combatants: [2]Combatant{c1.Clone(), c2.Clone()},
		seed:       seed,
	}

	b.Reset()

	return b
}

// Reset throws away all progress and starts the battle over from the original seed
func (b *Battle) Reset() {
	b.source = b.seed
	b.rng = rand.New(&b.source)
	b.state = b.engine.InitializeBattle(b.combatants[0], b.combatants[1], b.rng)
	b.result = nil
}

// Next plays the next round. The boolean value is false once the battle is over.
func (b *Battle) Next() (RoundOutcome, bool) {
	outcome, ok := advance(&b.state, b.rng)
	if !ok {
		return outcome, false
	}

	if b.state.Phase == PHASE_COMPLETE && b.result == nil {
		result, _ := b.state.Result()
		b.result = &result
	}

	return outcome, true
}

// Rounds is a range-able version of Next. Stopping early leaves the battle where it was.
func (b *Battle) Rounds() iter.Seq[RoundOutcome] {
	return func(yield func(RoundOutcome) bool) {
		for {
			outcome, ok := b.Next()
			if !ok {
				return
			}

			if !yield(outcome) {
				return
			}
		}
	}
}

// Finish plays every remaining round and returns the result
func (b *Battle) Finish() BattleResult {
	for range b.Rounds() {
	}

	result, _ := b.Result()
	return result
}

// Result returns the result of the battle once the final round has been played
func (b *Battle) Result() (BattleResult, bool) {
	if b.result == nil {
		return BattleResult{}, false
	}

	return *b.result, true
}

// State returns a copy of the current state
func (b *Battle) State() BattleState {
	return b.state.Clone()
}

func (b *Battle) Done() bool {
	return b.state.Phase == PHASE_COMPLETE
}

// Describe turns a round into the line shown in battle logs
func Describe(outcome RoundOutcome) string {
	effect := fmt.Sprintf("%s used %s!", outcome.AttackerName, outcome.Move.Name)

	if outcome.Critical {
		effect = "Critical Hit! " + effect
	}

	switch outcome.Effectiveness {
	case EFFECTIVENESS_SUPER:
		effect += " It's super effective!"
	case EFFECTIVENESS_NOT_VERY:
		effect += " It's not very effective..."
	}

	return effect
}

// LogLine is Describe with the damage tacked on
func LogLine(outcome RoundOutcome) string {
	return fmt.Sprintf("%s (%d damage)", Describe(outcome), outcome.Damage)
}

// PushLog adds a line to the front of a log, keeping only the newest MAX_LOG_LINES
func PushLog(log []string, line string) []string {
	newLog := append([]string{line}, log...)

	return newLog[:min(len(newLog), MAX_LOG_LINES)]
}

package duel

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

func TestStarterBattle(t *testing.T) {
	engine := NewEngine(getStarterCatalog())

	result := engine.RunBattle(getBulbasaur(), getCharmander(), &scriptedRng{})

	if result.WinnerName != "charmander" || result.WinnerSide != SIDE_TWO {
		t.Fatalf("expected charmander to win, got %s (side %d)", result.WinnerName, result.WinnerSide)
	}

	if result.LoserID != 1 {
		t.Fatalf("expected bulbasaur to lose, got %d", result.LoserID)
	}

	if len(result.Rounds) != 10 {
		t.Fatalf("expected 10 rounds, got %d", len(result.Rounds))
	}

	if result.TotalDamage != 250 {
		t.Fatalf("expected 250 total damage, got %d", result.TotalDamage)
	}

	if result.FinalHealth != [2]int{0, 59} {
		t.Fatalf("unexpected final health: %v", result.FinalHealth)
	}

	for _, round := range result.Rounds {
		switch round.AttackerSide {
		case SIDE_ONE:
			if round.Move.Name != "Tackle" || round.Damage != 15 || round.Effectiveness != EFFECTIVENESS_NOT_VERY {
				t.Fatalf("unexpected bulbasaur round: %+v", round)
			}
		case SIDE_TWO:
			if round.Move.Name != "Ember" || round.Damage != 35 || round.Effectiveness != EFFECTIVENESS_SUPER {
				t.Fatalf("unexpected charmander round: %+v", round)
			}
		}
	}
}

func TestMirrorMatch(t *testing.T) {
	engine := NewEngine(getStarterCatalog())

	result := engine.RunBattle(getNeutral(1, "left", 50), getNeutral(2, "right", 50), &scriptedRng{})

	// same stats and no randomness means whoever swings first wins
	if result.WinnerSide != SIDE_ONE {
		t.Fatalf("expected side one to win a mirror match, got side %d", result.WinnerSide)
	}

	if len(result.Rounds) != 13 {
		t.Fatalf("expected 13 rounds, got %d", len(result.Rounds))
	}

	for _, round := range result.Rounds {
		if round.Multiplier != 1 || round.Effectiveness != EFFECTIVENESS_NORMAL {
			t.Fatalf("normal against normal should be neutral: %+v", round)
		}
	}
}

func TestBattleInvariants(t *testing.T) {
	engine := NewEngine(getStarterCatalog())
	pairs := [][2]Combatant{
		{getBulbasaur(), getCharmander()},
		{getNeutral(1, "weak", 1), getNeutral(2, "strong", 255)},
		{getNeutral(1, "zeroed", 0), Combatant{ID: 2, Name: "blank", Types: []string{"shadow"}}},
	}

	for seed := range uint64(50) {
		for _, pair := range pairs {
			source := SeedFromInt(seed)
			rng := CreateRNG(&source)
			state := engine.InitializeBattle(pair[0], pair[1], rng)

			if state.Health[SIDE_ONE] != state.Fighters[SIDE_ONE].MaxHealth || state.Health[SIDE_TWO] != state.Fighters[SIDE_TWO].MaxHealth {
				t.Fatalf("battle should start at max health: %v", state.Health)
			}

			expectedAttacker := SIDE_ONE
			rounds := 0
			for {
				before := state.Health
				outcome, ok := advance(&state, rng)
				if !ok {
					break
				}
				rounds++

				if rounds > 1000 {
					t.Fatalf("battle did not end")
				}

				if outcome.AttackerSide != expectedAttacker {
					t.Fatalf("round %d: expected side %d to attack, got %d", outcome.Round, expectedAttacker, outcome.AttackerSide)
				}
				expectedAttacker = otherSide(expectedAttacker)

				if outcome.Damage < MIN_FINAL_DAMAGE {
					t.Fatalf("round %d did %d damage", outcome.Round, outcome.Damage)
				}

				if outcome.Multiplier < MIN_EFFECTIVENESS || outcome.Multiplier > MAX_EFFECTIVENESS {
					t.Fatalf("round %d multiplier out of range: %f", outcome.Round, outcome.Multiplier)
				}

				if state.Health[outcome.AttackerSide] != before[outcome.AttackerSide] {
					t.Fatalf("attacker health changed in round %d", outcome.Round)
				}

				if state.Health[outcome.DefenderSide] != max(0, before[outcome.DefenderSide]-outcome.Damage) {
					t.Fatalf("defender health wrong in round %d", outcome.Round)
				}
			}

			result, ok := state.Result()
			if !ok {
				t.Fatalf("finished battle has no result")
			}

			sum := 0
			for _, round := range result.Rounds {
				sum += round.Damage
			}

			if sum != result.TotalDamage {
				t.Fatalf("total damage %d doesn't match rounds %d", result.TotalDamage, sum)
			}

			if result.FinalHealth[result.WinnerSide] <= 0 || result.FinalHealth[otherSide(result.WinnerSide)] != 0 {
				t.Fatalf("bad final health %v for winner %d", result.FinalHealth, result.WinnerSide)
			}
		}
	}
}

func TestResolveRoundIsPure(t *testing.T) {
	engine := NewEngine(getStarterCatalog())
	state := engine.InitializeBattle(getBulbasaur(), getCharmander(), &scriptedRng{})
	before := state.Clone()

	outcome := ResolveRound(&state, SIDE_ONE, SIDE_TWO, &scriptedRng{})

	if !reflect.DeepEqual(before, state) {
		t.Fatalf("ResolveRound changed the state")
	}

	if outcome.DefenderHealth != state.Health[SIDE_TWO]-outcome.Damage {
		t.Fatalf("expected defender health %d, got %d", state.Health[SIDE_TWO]-outcome.Damage, outcome.DefenderHealth)
	}
}

func TestRngDrawOrder(t *testing.T) {
	charmander := NewFighter(getCharmander(), []Move{tackle, ember})
	bulbasaur := NewFighter(getBulbasaur(), []Move{tackle})
	state := BattleState{
		Fighters: [2]Fighter{charmander, bulbasaur},
		Health:   [2]int{charmander.MaxHealth, bulbasaur.MaxHealth},
	}

	// move index, then crit roll, then jitter
	rng := &scriptedRng{ints: []int{1, 0}, floats: []float64{0.01}}
	outcome := ResolveRound(&state, SIDE_ONE, SIDE_TWO, rng)

	if outcome.Move.Name != "Ember" {
		t.Fatalf("expected ember, got %s", outcome.Move.Name)
	}

	if !outcome.Critical {
		t.Fatalf("expected a critical hit")
	}

	// 23 * 1.3 * 1.5 - 3
	if outcome.Damage != 42 {
		t.Fatalf("expected 42 damage, got %d", outcome.Damage)
	}
}

func TestStruggleWithEmptyPool(t *testing.T) {
	empty := NewFighter(getNeutral(1, "empty", 50), nil)
	other := NewFighter(getNeutral(2, "other", 50), nil)
	state := BattleState{
		Fighters: [2]Fighter{empty, other},
		Health:   [2]int{empty.MaxHealth, other.MaxHealth},
	}

	outcome := ResolveRound(&state, SIDE_ONE, SIDE_TWO, &scriptedRng{})
	if outcome.Move.Name != STRUGGLE.Name {
		t.Fatalf("expected struggle, got %s", outcome.Move.Name)
	}
}

func TestDefaultMovesWithEmptyCatalog(t *testing.T) {
	engine := NewEngine(NewMoveCatalog(nil))
	fighter := engine.Prepare(getBulbasaur(), &scriptedRng{})

	if !reflect.DeepEqual(fighter.MovePool, DEFAULT_MOVES) {
		t.Fatalf("expected default moves, got %v", fighter.MovePool)
	}
}

func TestMovePoolSize(t *testing.T) {
	moves := []Move{tackle}
	for _, name := range []string{"Vine Whip", "Razor Leaf", "Solar Beam", "Leaf Storm", "Giga Drain"} {
		moves = append(moves, Move{Name: name, Type: TYPENAME_GRASS, Power: 60, Category: CATEGORY_SPECIAL})
	}
	catalog := NewMoveCatalog(moves)

	for seed := range uint64(20) {
		source := SeedFromInt(seed)
		pool := catalog.SampleMovePool(getBulbasaur(), CreateRNG(&source))

		if len(pool) != MOVE_POOL_SIZE {
			t.Fatalf("expected %d moves, got %d", MOVE_POOL_SIZE, len(pool))
		}

		seen := make(map[string]bool)
		for _, move := range pool {
			if seen[move.Name] {
				t.Fatalf("move %s drawn twice", move.Name)
			}
			seen[move.Name] = true
		}
	}

	if catalog.Len() != 6 {
		t.Fatalf("catalog should still have 6 moves, got %d", catalog.Len())
	}
}

func TestBattleDoesNotMutateInput(t *testing.T) {
	bulbasaur := getBulbasaur()
	charmander := getCharmander()
	engine := NewEngine(getStarterCatalog())

	source := SeedFromInt(7)
	engine.RunBattle(bulbasaur, charmander, CreateRNG(&source))

	if !reflect.DeepEqual(bulbasaur, getBulbasaur()) || !reflect.DeepEqual(charmander, getCharmander()) {
		t.Fatalf("battle changed its input combatants")
	}
}

func TestBattleReset(t *testing.T) {
	engine := NewEngine(getStarterCatalog())
	battle := engine.NewBattle(getBulbasaur(), getCharmander(), SeedFromInt(1234))

	first := make([]RoundOutcome, 0)
	for outcome := range battle.Rounds() {
		first = append(first, outcome)
	}

	if !battle.Done() {
		t.Fatalf("battle should be done after ranging over every round")
	}

	firstResult, ok := battle.Result()
	if !ok {
		t.Fatalf("done battle should have a result")
	}

	battle.Reset()
	if _, ok := battle.Result(); ok {
		t.Fatalf("reset battle should not have a result")
	}

	second := make([]RoundOutcome, 0)
	for outcome := range battle.Rounds() {
		second = append(second, outcome)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reset battle played out differently")
	}

	secondResult, _ := battle.Result()
	if !reflect.DeepEqual(firstResult, secondResult) {
		t.Fatalf("reset battle has a different result")
	}

	// another battle from the same seed also plays out the same
	other := engine.NewBattle(getBulbasaur(), getCharmander(), SeedFromInt(1234))
	replayed := other.Finish()
	if !reflect.DeepEqual(firstResult, replayed) {
		t.Fatalf("battles with the same seed played out differently")
	}
}

func TestRoundsStopEarly(t *testing.T) {
	engine := NewEngine(getStarterCatalog())
	battle := engine.NewBattle(getBulbasaur(), getCharmander(), SeedFromInt(99))

	count := 0
	for range battle.Rounds() {
		count++
		if count == 2 {
			break
		}
	}

	outcome, ok := battle.Next()
	if !ok || outcome.Round != 3 {
		t.Fatalf("expected to pick up at round 3, got %d (%v)", outcome.Round, ok)
	}

	if _, ok := battle.Result(); ok {
		t.Fatalf("unfinished battle should not have a result")
	}
}

func TestHighRollsNeverCrit(t *testing.T) {
	engine := NewEngine(getStarterCatalog())
	result := engine.RunBattle(getBulbasaur(), getCharmander(), rand.New(highSource{}))

	for _, round := range result.Rounds {
		if round.Critical {
			t.Fatalf("round %d should not have crit", round.Round)
		}
	}

	// +3 on every hit
	if result.Rounds[0].Damage != 18 {
		t.Fatalf("expected 18 damage on the first round, got %d", result.Rounds[0].Damage)
	}
}

func TestDescribe(t *testing.T) {
	outcome := RoundOutcome{
		AttackerName:  "charmander",
		Move:          ember,
		Damage:        45,
		Critical:      true,
		Effectiveness: EFFECTIVENESS_SUPER,
	}

	line := Describe(outcome)
	if line != "Critical Hit! charmander used Ember! It's super effective!" {
		t.Fatalf("unexpected description: %s", line)
	}

	if !strings.HasSuffix(LogLine(outcome), "(45 damage)") {
		t.Fatalf("log line is missing damage: %s", LogLine(outcome))
	}

	outcome.Critical = false
	outcome.Effectiveness = EFFECTIVENESS_NOT_VERY
	if Describe(outcome) != "charmander used Ember! It's not very effective..." {
		t.Fatalf("unexpected description: %s", Describe(outcome))
	}
}

func TestPushLog(t *testing.T) {
	log := make([]string, 0)
	for i := range 10 {
		log = PushLog(log, strings.Repeat("x", i+1))
	}

	if len(log) != MAX_LOG_LINES {
		t.Fatalf("expected %d lines, got %d", MAX_LOG_LINES, len(log))
	}

	if log[0] != strings.Repeat("x", 10) {
		t.Fatalf("newest line should be first, got %s", log[0])
	}
}

func TestStatus(t *testing.T) {
	engine := NewEngine(getStarterCatalog())
	state := engine.InitializeBattle(getBulbasaur(), getCharmander(), &scriptedRng{})
	state.Health[SIDE_TWO] = 67

	status := state.Status()
	if status[SIDE_ONE].Percentage != 100 {
		t.Fatalf("expected full health, got %d%%", status[SIDE_ONE].Percentage)
	}

	if status[SIDE_TWO].Percentage != 50 || status[SIDE_TWO].MaxHP != 134 {
		t.Fatalf("unexpected status: %+v", status[SIDE_TWO])
	}
}

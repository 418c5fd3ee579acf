package duel

import (
	"math/rand/v2"
)

// Rng is every source of randomness the engine needs. *rand.Rand satisfies it,
// tests can hand in something scripted.
type Rng interface {
	// Float64 returns a number in [0.0, 1.0)
	Float64() float64
	// IntN returns a number in [0, n)
	IntN(n int) int
}

// SeedFromInt builds a deterministic seed so a battle can be replayed from a single number
func SeedFromInt(seed uint64) rand.PCG {
	return *rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func CreateRNG(seed *rand.PCG) *rand.Rand {
	return rand.New(seed)
}

// jitter returns a uniform integer in [-JITTER_RANGE, JITTER_RANGE]
func jitter(rng Rng) int {
	return rng.IntN(JITTER_RANGE*2+1) - JITTER_RANGE
}

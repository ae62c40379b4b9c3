package mutate

import (
	"math/rand/v2"
)

// Rand is the randomness the color and font rules draw from.
type Rand interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

// ResolveSeed returns seed, or a random non-zero seed when seed is 0. The
// resolved value is what a run reports so it can be reproduced.
func ResolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

// NewRand returns a PCG generator. The same non-zero seed always produces
// the same draws; a zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	seed = ResolveSeed(seed)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

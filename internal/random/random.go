// Package random provides the single random source used by battle
// resolution, loot rolls and enemy AI.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source is the numeric generator consumed by the engine.
// Float64 returns a value in [0, 1); IntN returns a value in [0, n).
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a deterministic PCG-backed source for the given seed.
func New(seed int64) Source {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Roll reports whether a chance check passes. 0 never passes, 1 always does.
func Roll(rng Source, chance float64) bool {
	return rng.Float64() < chance
}

// IntRange returns a uniform integer in [min(a,b), max(a,b)].
func IntRange(rng Source, a, b int) int {
	lo, hi := min(a, b), max(a, b)
	return lo + rng.IntN(hi-lo+1)
}

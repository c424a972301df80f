// Package randutil centralises how seeded rand/v2 generators are built
// so every call site derives reproducible sequences from one int64 seed.
package randutil

import (
	"time"

	rand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided
// int64, expanding it into the two 64-bit words rand/v2's PCG wants via
// a splitmix64 finalizer.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns a time-derived seed for runs where the caller did not
// supply one. Callers should log it so the run can be replayed.
func Seed() int64 {
	return time.Now().UnixNano()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

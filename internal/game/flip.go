package game

import (
	"crypto/rand"
	"fmt"
	"sync"

	mathrand "math/rand/v2"
)

// Flipper draws the 50/50 elimination outcome. It is the engine's only
// source of randomness, injected so tests and simulations can fix
// outcomes deterministically.
type Flipper interface {
	// Flip reports whether the shot is fatal.
	Flip() bool
}

// FlipperFunc adapts a function to the Flipper interface.
type FlipperFunc func() bool

// Flip implements Flipper.
func (f FlipperFunc) Flip() bool { return f() }

// CryptoFlipper draws from crypto/rand so outcomes are unpredictable
// and non-replayable per call. This is the production flipper.
type CryptoFlipper struct{}

// Flip implements Flipper.
func (CryptoFlipper) Flip() bool {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return b[0]&1 == 1
}

// SeededFlipper draws from a seeded PRNG for reproducible runs. The
// mutex makes a single flipper safe to share across channels, which
// otherwise run transitions in parallel.
type SeededFlipper struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededFlipper wraps rng in a concurrency-safe Flipper.
func NewSeededFlipper(rng *mathrand.Rand) *SeededFlipper {
	return &SeededFlipper{rng: rng}
}

// Flip implements Flipper.
func (f *SeededFlipper) Flip() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Uint64()&1 == 1
}

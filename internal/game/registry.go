package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// Registry owns every live game, keyed by channel id, with at most one
// game per channel. Each channel carries its own lock so transitions
// for one channel never interleave while independent channels proceed
// in parallel. The lock belongs to the channel slot rather than the
// game, so a finish/re-create race cannot produce two games for the
// same channel.
type Registry struct {
	clock quartz.Clock

	mu       sync.RWMutex
	channels map[string]*Channel
}

// Channel is the locked per-channel slot holding at most one game.
type Channel struct {
	mu   sync.Mutex
	name string
	game *Game
}

// NewRegistry creates an empty registry. A nil clock means wall time.
func NewRegistry(clock quartz.Clock) *Registry {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Registry{
		clock:    clock,
		channels: make(map[string]*Channel),
	}
}

// Acquire locks the channel slot for the duration of one transition.
// The caller must call Release exactly once on every exit path, before
// any message delivery happens with the computed result.
func (r *Registry) Acquire(name string) *Channel {
	for {
		r.mu.Lock()
		ch, ok := r.channels[name]
		if !ok {
			ch = &Channel{name: name}
			r.channels[name] = ch
		}
		r.mu.Unlock()

		ch.mu.Lock()
		r.mu.RLock()
		current := r.channels[name]
		r.mu.RUnlock()
		if current == ch {
			return ch
		}
		// The slot was reaped while we waited on its lock; retry
		// against the registry so we never mutate an orphaned slot.
		ch.mu.Unlock()
	}
}

// Release unlocks the channel slot.
func (ch *Channel) Release() {
	ch.mu.Unlock()
}

// Game returns the live game for the channel, or nil if none. The
// caller must hold the channel lock.
func (ch *Channel) Game() *Game {
	return ch.game
}

// Remove deletes the channel's game. Called exactly once when a game
// transitions to finished. The caller must hold the channel lock.
func (ch *Channel) Remove() {
	ch.game = nil
}

// ResolveOrCreate returns the channel's live game, creating an empty
// waiting game if none exists. The caller must hold the channel lock.
func (r *Registry) ResolveOrCreate(ch *Channel) *Game {
	if ch.game == nil {
		ch.game = &Game{
			ID:           uuid.NewString(),
			Channel:      ch.name,
			Pot:          NewPot(),
			Status:       Waiting,
			LastActivity: r.clock.Now(),
		}
	}
	return ch.game
}

// Touch records activity on the game for idle accounting.
func (r *Registry) Touch(g *Game) {
	g.LastActivity = r.clock.Now()
}

// Len reports the number of live games.
func (r *Registry) Len() int {
	n := 0
	for _, ch := range r.snapshot() {
		ch.mu.Lock()
		if ch.game != nil {
			n++
		}
		ch.mu.Unlock()
	}
	return n
}

// ReapIdle removes waiting games that have seen no activity for at
// least maxIdle, along with any empty channel slots, and returns the
// reaped channel names. Active games are never reaped.
func (r *Registry) ReapIdle(maxIdle time.Duration) []string {
	now := r.clock.Now()

	var reaped []string
	for name, ch := range r.snapshot() {
		ch.mu.Lock()
		hadGame := ch.game != nil
		stale := ch.game == nil ||
			(ch.game.Status == Waiting && now.Sub(ch.game.LastActivity) >= maxIdle)
		if stale {
			ch.game = nil
			r.mu.Lock()
			if r.channels[name] == ch {
				delete(r.channels, name)
			}
			r.mu.Unlock()
			if hadGame {
				reaped = append(reaped, name)
			}
		}
		ch.mu.Unlock()
	}
	return reaped
}

// snapshot copies the channel map so callers can lock slots one at a
// time without holding the map lock. Channel locks are always taken
// before the map lock, never under it.
func (r *Registry) snapshot() map[string]*Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make(map[string]*Channel, len(r.channels))
	for name, ch := range r.channels {
		channels[name] = ch
	}
	return channels
}

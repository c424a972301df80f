package game

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a game. The lifecycle is linear:
// Waiting -> Active -> Finished, with no other transitions.
type Status int

const (
	Waiting Status = iota
	Active
	Finished
)

// String returns the string representation of a game status.
func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Game is the per-channel game state. At most one Game is live per
// channel at any time; the Registry owns every instance and callers
// never retain references across transitions.
type Game struct {
	ID      string // uuid, for log correlation only
	Channel string

	// Players in enrollment order. Enrollment order is turn order and
	// is never reshuffled; eliminations flip Alive instead of removing.
	Players []*Player

	Pot *Pot

	// TurnIndex indexes the alive subsequence, not Players. The alive
	// count is recomputed per lookup because eliminations shrink the
	// alive set between advances.
	TurnIndex int

	Status Status
	Winner string

	// ForcedShoot marks that a full rotation of passes just completed
	// and the current player is expected to shoot. Informational for
	// messaging; enforcement is the pass precondition.
	ForcedShoot bool

	// LastActivity is updated on every successful transition and
	// drives idle reaping of abandoned waiting games.
	LastActivity time.Time
}

// alivePlayers returns the alive subsequence in enrollment order.
func (g *Game) alivePlayers() []*Player {
	alive := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

func (g *Game) aliveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// currentPlayer resolves the player whose turn it is. Only valid while
// the game is active; zero alive players at that point means the win
// check failed to fire, which is an internal-consistency violation
// rather than a user error.
func (g *Game) currentPlayer() *Player {
	alive := g.alivePlayers()
	if len(alive) == 0 {
		panic(fmt.Sprintf("game %s: active with zero alive players", g.ID))
	}
	return alive[g.TurnIndex%len(alive)]
}

// advanceTurn moves to the next alive player after a survived turn.
func (g *Game) advanceTurn() {
	g.TurnIndex = (g.TurnIndex + 1) % g.aliveCount()
}

// reseatTurn re-derives the seat after an elimination. Removing the
// current player from the alive subsequence shifts the next player in
// original order into the current index, so the index is clamped to
// the shrunken alive count rather than incremented; incrementing here
// would skip a player.
func (g *Game) reseatTurn() {
	g.TurnIndex %= g.aliveCount()
}

// findPlayer matches a player by chat identity, case-insensitively.
func (g *Game) findPlayer(identity string) *Player {
	for _, p := range g.Players {
		if strings.EqualFold(p.Identity, identity) {
			return p
		}
	}
	return nil
}

// enrolled reports whether the identity or the payout address is
// already taken by an enrolled player.
func (g *Game) enrolled(identity, payoutAddress string) bool {
	for _, p := range g.Players {
		if strings.EqualFold(p.Identity, identity) || strings.EqualFold(p.PayoutAddress, payoutAddress) {
			return true
		}
	}
	return false
}

// resetRotation clears LastAction for every alive player, opening a
// fresh pass-rotation window.
func (g *Game) resetRotation() {
	for _, p := range g.Players {
		if p.Alive {
			p.LastAction = ActionNone
		}
	}
}

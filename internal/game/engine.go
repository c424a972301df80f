package game

import (
	"math/big"
	"strings"

	"github.com/rs/zerolog"
)

// Config carries the fixed game amounts, in the same smallest currency
// unit as the pot.
type Config struct {
	PassBurn  *big.Int // burned from the pot on every pass, clamped at balance
	GritBonus *big.Int // added to the pot on every surviving shoot
}

// Engine applies game transitions against the per-channel registry.
// Every transition runs to completion under the owning channel's lock
// and returns a result payload; the engine never delivers messages and
// never blocks on external collaborators while holding a lock.
type Engine struct {
	registry *Registry
	flipper  Flipper
	cfg      Config
	logger   zerolog.Logger
}

// NewEngine wires a registry, a randomness source and the configured
// amounts into an engine.
func NewEngine(registry *Registry, flipper Flipper, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		registry: registry,
		flipper:  flipper,
		cfg:      cfg,
		logger:   logger.With().Str("component", "engine").Logger(),
	}
}

// Registry exposes the engine's registry for lifecycle tasks such as
// idle reaping.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Deposit enrolls the sender into the channel's waiting game, creating
// the game if none exists, and credits the full deposit to the pot.
// Any positive amount is full entry; there is no minimum. A duplicate
// identity or payout address is rejected without state change, leaving
// reconciliation of the uncredited deposit to the payment substrate.
func (e *Engine) Deposit(channel, identity, payoutAddress string, amount *big.Int) (DepositResult, error) {
	var res DepositResult
	if amount == nil || amount.Sign() <= 0 {
		return res, ErrInvalidAmount
	}

	ch := e.registry.Acquire(channel)
	defer ch.Release()

	g := e.registry.ResolveOrCreate(ch)
	if g.Status != Waiting {
		return res, &WrongStatusError{Status: g.Status}
	}
	if g.enrolled(identity, payoutAddress) {
		return res, ErrAlreadyJoined
	}

	g.Players = append(g.Players, &Player{
		Identity:      identity,
		PayoutAddress: payoutAddress,
		Alive:         true,
		LastAction:    ActionNone,
	})
	g.Pot.Deposit(amount)
	e.registry.Touch(g)

	e.logger.Info().
		Str("channel", channel).
		Str("game", g.ID).
		Str("player", identity).
		Str("amount", amount.String()).
		Int("players", len(g.Players)).
		Msg("player enrolled")

	res = DepositResult{
		Identity:    identity,
		PlayerCount: len(g.Players),
		Pot:         g.Pot.Balance(),
	}
	return res, nil
}

// Start moves a waiting game with at least two players to active. Any
// caller may start; enrollment order becomes turn order and the first
// enrolled player acts first.
func (e *Engine) Start(channel, actor string) (StartResult, error) {
	var res StartResult

	ch := e.registry.Acquire(channel)
	defer ch.Release()

	g := ch.Game()
	if g == nil {
		return res, ErrNoGame
	}
	if g.Status != Waiting {
		return res, &WrongStatusError{Status: g.Status}
	}
	if len(g.Players) < 2 {
		return res, &NotEnoughPlayersError{Count: len(g.Players)}
	}

	g.Status = Active
	g.TurnIndex = 0
	e.registry.Touch(g)

	e.logger.Info().
		Str("channel", channel).
		Str("game", g.ID).
		Str("started_by", actor).
		Int("players", len(g.Players)).
		Msg("game started")

	res = StartResult{
		FirstPlayer: g.currentPlayer().Identity,
		PlayerCount: len(g.Players),
		Pot:         g.Pot.Balance(),
	}
	return res, nil
}

// Shoot resolves the acting player's 50/50 risk draw. A survival adds
// the grit bonus to the pot; an elimination checks for a winner before
// any turn advance and finished games are removed from the registry
// immediately. Either way the pass-rotation window resets.
func (e *Engine) Shoot(channel, actor string) (ShootResult, error) {
	var res ShootResult

	ch := e.registry.Acquire(channel)
	defer ch.Release()

	g, cur, err := e.turnFor(ch, actor)
	if err != nil {
		return res, err
	}

	bang := e.flipper.Flip()

	cur.LastAction = ActionShot
	g.resetRotation()
	g.ForcedShoot = false

	if bang {
		cur.Alive = false

		alive := g.alivePlayers()
		if len(alive) == 1 {
			winner := alive[0]
			g.Status = Finished
			g.Winner = winner.Identity
			res = ShootResult{
				Outcome:    OutcomeBang,
				Shooter:    cur.Identity,
				Eliminated: cur.Identity,
				Pot:        g.Pot.Balance(),
				AliveCount: 1,
				GameOver:   true,
				Winner:     winner.Identity,
			}
			ch.Remove()

			e.logger.Info().
				Str("channel", channel).
				Str("game", g.ID).
				Str("winner", winner.Identity).
				Str("payout_address", winner.PayoutAddress).
				Str("pot", res.Pot.String()).
				Msg("game finished")
			return res, nil
		}

		g.reseatTurn()
		e.registry.Touch(g)

		res = ShootResult{
			Outcome:    OutcomeBang,
			Shooter:    cur.Identity,
			Eliminated: cur.Identity,
			Pot:        g.Pot.Balance(),
			AliveCount: len(alive),
			NextPlayer: g.currentPlayer().Identity,
		}

		e.logger.Info().
			Str("channel", channel).
			Str("game", g.ID).
			Str("player", cur.Identity).
			Int("alive", len(alive)).
			Msg("player eliminated")
		return res, nil
	}

	g.Pot.Bonus(e.cfg.GritBonus)
	g.advanceTurn()
	e.registry.Touch(g)

	res = ShootResult{
		Outcome:    OutcomeClick,
		Shooter:    cur.Identity,
		Pot:        g.Pot.Balance(),
		AliveCount: g.aliveCount(),
		NextPlayer: g.currentPlayer().Identity,
	}

	e.logger.Debug().
		Str("channel", channel).
		Str("game", g.ID).
		Str("player", cur.Identity).
		Str("pot", res.Pot.String()).
		Msg("player survived")
	return res, nil
}

// Pass records a pass for the acting player and burns the pass amount
// from the pot, clamped at the balance. Passing is rejected while every
// other alive player has already passed this rotation; a full rotation
// of passes resets the rotation window and flags the next player as
// forced to shoot.
func (e *Engine) Pass(channel, actor string) (PassResult, error) {
	var res PassResult

	ch := e.registry.Acquire(channel)
	defer ch.Release()

	g, cur, err := e.turnFor(ch, actor)
	if err != nil {
		return res, err
	}

	others, othersPassed := 0, 0
	for _, p := range g.alivePlayers() {
		if p == cur {
			continue
		}
		others++
		if p.LastAction == ActionPassed {
			othersPassed++
		}
	}
	// The rule only constrains behavior relative to other players, so
	// a sole alive player may pass.
	if others > 0 && othersPassed == others {
		return res, ErrMustShoot
	}

	cur.LastAction = ActionPassed
	burned := g.Pot.Burn(e.cfg.PassBurn)
	g.advanceTurn()

	allPassed := true
	for _, p := range g.alivePlayers() {
		if p.LastAction != ActionPassed {
			allPassed = false
			break
		}
	}
	g.ForcedShoot = allPassed
	if allPassed {
		g.resetRotation()
	}
	e.registry.Touch(g)

	res = PassResult{
		Passer:      cur.Identity,
		Burned:      burned,
		Pot:         g.Pot.Balance(),
		NextPlayer:  g.currentPlayer().Identity,
		ForcedShoot: g.ForcedShoot,
	}

	e.logger.Debug().
		Str("channel", channel).
		Str("game", g.ID).
		Str("player", cur.Identity).
		Str("burned", burned.String()).
		Bool("forced_shoot", g.ForcedShoot).
		Msg("player passed")
	return res, nil
}

// Status reports the channel's game without creating one. A finished
// game is removed the instant it finishes, so a later status query for
// that channel finds no game.
func (e *Engine) Status(channel string) (StatusResult, error) {
	var res StatusResult

	ch := e.registry.Acquire(channel)
	defer ch.Release()

	g := ch.Game()
	if g == nil {
		return res, ErrNoGame
	}

	res = StatusResult{
		Status:      g.Status,
		Pot:         g.Pot.Balance(),
		TotalCount:  len(g.Players),
		AliveCount:  g.aliveCount(),
		ForcedShoot: g.ForcedShoot,
	}
	for _, p := range g.Players {
		res.Roster = append(res.Roster, p.Identity)
		if p.Alive {
			res.Alive = append(res.Alive, p.Identity)
		}
	}
	if g.Status == Active {
		res.CurrentPlayer = g.currentPlayer().Identity
	}
	return res, nil
}

// turnFor validates the shared shoot/pass preconditions: an active game
// exists, the actor matches the current player case-insensitively, and
// the current player is alive. The caller holds the channel lock.
func (e *Engine) turnFor(ch *Channel, actor string) (*Game, *Player, error) {
	g := ch.Game()
	if g == nil {
		return nil, nil, ErrNoGame
	}
	if g.Status != Active {
		return nil, nil, &WrongStatusError{Status: g.Status}
	}

	cur := g.currentPlayer()
	if !strings.EqualFold(actor, cur.Identity) {
		return nil, nil, ErrNotYourTurn
	}
	// Unreachable given the invariants, but fail safely instead of
	// mutating a corpse.
	if !cur.Alive {
		return nil, nil, ErrAlreadyEliminated
	}
	return g, cur, nil
}

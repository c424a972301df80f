// Package game implements the Deadman's Tip game-state engine.
//
// The main type is Engine, which applies transitions (deposit, start,
// shoot, pass, status) against the per-channel Registry. Each channel
// hosts at most one live Game; enrollment order is turn order, a shoot
// is a 50/50 elimination draw, passing burns from the pot, and the last
// alive player wins the pot.
//
// # Concurrency
//
// Channels are fully independent. Within a channel, every transition
// runs to completion under the channel's lock before the engine yields,
// so concurrent events for the same channel are serialized rather than
// interleaved. The engine performs no I/O; callers deliver the returned
// result payloads after the lock is released.
//
// # Deterministic Testing
//
// Randomness is injected through the Flipper interface. Production uses
// CryptoFlipper; tests script outcomes with FlipperFunc or reproduce
// whole games with a SeededFlipper:
//
//	rng := randutil.New(42)
//	e := game.NewEngine(game.NewRegistry(nil), game.NewSeededFlipper(rng), cfg, logger)
//
// # Pot arithmetic
//
// All amounts are exact big.Int values in the smallest currency unit
// (wei). Deposits and bonuses credit the pot, pass burns clamp at the
// current balance, and the pot can never go negative.
package game

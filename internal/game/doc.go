// Package game implements the Golden Flower round engine.
//
// The main type is Round, which owns one round of play: ante collection,
// dealing, the betting turn loop, compares and settlement. Rounds are pure
// state machines; ledger adjustments and domain events accumulate on the
// round and are drained by the caller after each transition.
//
// Session wraps a Round with everything the round deliberately avoids:
// opponent sampling from the player directory, clock-driven AI turns with a
// stale-timer generation guard, ordered ledger writes, and per-viewer
// snapshots for the presentation layer.
//
// # Deterministic testing
//
//	rng := randutil.New(42)
//	r := game.NewRound(game.DefaultRules(), rng, players, 0)
//	_ = r.BeginPlay()
//	_ = r.Apply(players[1].ID, game.Call)
//
// Sessions accept a quartz mock clock so tests control AI pacing:
//
//	s := game.NewSession(logger, store, "h1", "You",
//	    game.WithClock(quartz.NewMock(t)), game.WithSeed(42))
package game

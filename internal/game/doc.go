// Package game implements the core Texas Hold'em logic for a shared
// virtual table: the betting-round state machine, street sequencing, and
// hand settlement.
//
// The main types are Table, which owns the durable player set across
// rounds, and Orchestrator, which drives a single hand from blinds through
// showdown. Presentation concerns (how choices are shown to a player) and
// hand ranking are collaborators behind the ActionPrompter and Ranker
// interfaces; the package itself renders nothing and ranks nothing.
//
// # Basic Usage
//
//	rng := randutil.New(time.Now().UnixNano())
//	t := game.NewTable(logger, rng, prompter, ranker)
//	t.Join("alice")
//	t.Join("bob")
//	result, err := t.PlayHand(ctx)
//
// # Deterministic Testing
//
// All randomness is injected. Provide a seeded RNG, or a pre-shuffled deck
// via WithDeck, for fully reproducible hands:
//
//	rng := randutil.New(42)
//	h := game.NewOrchestrator(logger, nil, players, prompter, ranker,
//	    game.WithDeck(deck.New(rng)))
//
// One Orchestrator serves one table; concurrent tables are independent
// instances with no shared state. Within a hand all mutation happens on
// the orchestrator's goroutine, one action at a time.
package game

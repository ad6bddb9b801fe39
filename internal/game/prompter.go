package game

import (
	"context"

	"github.com/tymlipari/MRECards/internal/deck"
)

// ActionRequest carries everything the presentation layer needs to show a
// player their choices for one turn.
type ActionRequest struct {
	PlayerID     string
	Seat         int
	Street       Street
	Legal        []Action
	CurrentBet   int
	Contribution int // chips the player has already committed this street
	Bank         int
	Pot          int
}

// ActionResponse is the player's confirmed choice. RaiseBy is the amount
// the current bet increases by and is only meaningful for Raise.
type ActionResponse struct {
	Action  Action
	RaiseBy int
}

// ActionPrompter is the presentation collaborator: present the legal
// choices to the player and block until they confirm one. There is no
// turn timer; the call returns early only when the context is canceled or
// the player becomes unreachable, both of which the orchestrator treats
// as a fold.
type ActionPrompter interface {
	PromptAction(ctx context.Context, req ActionRequest) (ActionResponse, error)
}

// Ranker is the hand-ranking collaborator. Given each remaining player's
// two hole cards and the five community cards, it returns one rank ordinal
// per player, 0 meaning best with ties sharing an ordinal. Implementations
// must be pure functions of their inputs.
type Ranker interface {
	RankHands(holes [][2]deck.Card, community [5]deck.Card) ([]int, error)
}

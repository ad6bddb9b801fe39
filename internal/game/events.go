package game

import (
	"github.com/tymlipari/MRECards/internal/deck"
)

// Event is a notification about game progress, published for observers
// such as the presentation layer. Events are informational; the core never
// depends on a subscriber reacting to them.
type Event interface {
	Kind() string
}

// EventSink receives published events. Publish is called from the
// orchestrator's goroutine and must not block.
type EventSink interface {
	Publish(ev Event)
}

// NullSink discards all events.
type NullSink struct{}

func (NullSink) Publish(Event) {}

// SeatState is a per-player snapshot embedded in events.
type SeatState struct {
	ID        string
	Seat      int
	Bank      int
	StreetBet int
}

// HandStarted is published once blinds are posted and hole cards dealt.
type HandStarted struct {
	HandID     string
	Players    []SeatState
	DealerSeat int
	SmallBlind int
	BigBlind   int
}

func (HandStarted) Kind() string { return "hand_started" }

// BlindPosted is published for each forced bet.
type BlindPosted struct {
	PlayerID string
	Seat     int
	Amount   int
	Pot      int
}

func (BlindPosted) Kind() string { return "blind_posted" }

// ActionTaken is published after every accepted player action.
type ActionTaken struct {
	PlayerID string
	Seat     int
	Street   Street
	Action   Action
	Paid     int // incremental chips moved to the pot by this action
	Pot      int
}

func (ActionTaken) Kind() string { return "action_taken" }

// StreetDealt is published when community cards are revealed.
type StreetDealt struct {
	Street Street
	Board  []deck.Card
}

func (StreetDealt) Kind() string { return "street_dealt" }

// HandRevealed is published when a player's hole cards become public,
// either on fold or at showdown.
type HandRevealed struct {
	PlayerID string
	Seat     int
	Hand     []deck.Card
}

func (HandRevealed) Kind() string { return "hand_revealed" }

// PlayerDeparted is published when a departure mid-hand forfeits a seat.
type PlayerDeparted struct {
	PlayerID string
}

func (PlayerDeparted) Kind() string { return "player_departed" }

// HandEnded is published with the settlement result.
type HandEnded struct {
	HandID string
	Result *HandResult
	Board  []deck.Card
}

func (HandEnded) Kind() string { return "hand_ended" }

// Package protocol defines the JSON messages exchanged between the table
// server and its clients over a websocket. Every message carries a "type"
// field so either side can decode without out-of-band framing.
package protocol

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeJoin   MessageType = "join"
	TypeAction MessageType = "action"

	// Server -> Client
	TypeWelcome       MessageType = "welcome"
	TypePlayerJoined  MessageType = "player_joined"
	TypePlayerLeft    MessageType = "player_left"
	TypeHandStart     MessageType = "hand_start"
	TypeActionRequest MessageType = "action_request"
	TypePlayerAction  MessageType = "player_action"
	TypeStreetChange  MessageType = "street_change"
	TypeHandResult    MessageType = "hand_result"
	TypeError         MessageType = "error"
)

// Client -> Server Messages

// Join is sent by a client after connecting to claim a seat.
type Join struct {
	Type MessageType `json:"type"`
	Name string      `json:"name"`
}

// Action is sent by a client in response to ActionRequest.
type Action struct {
	Type   MessageType `json:"type"`
	Action string      `json:"action"` // fold, check, call, raise
	Amount int         `json:"amount"` // raise increment, only for raise
}

// Server -> Client Messages

// Welcome confirms a seat assignment.
type Welcome struct {
	Type    MessageType `json:"type"`
	Name    string      `json:"name"`
	Seat    int         `json:"seat"`
	Chips   int         `json:"chips"`
	Players []Player    `json:"players"`
}

// Player info at the table.
type Player struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Chips int    `json:"chips"`
	Bet   int    `json:"bet,omitempty"`
}

// PlayerJoined is broadcast when a new player takes a seat.
type PlayerJoined struct {
	Type  MessageType `json:"type"`
	Name  string      `json:"name"`
	Seat  int         `json:"seat"`
	Chips int         `json:"chips"`
}

// PlayerLeft is broadcast when a player leaves, including mid-hand
// departures, which fold the player's cards.
type PlayerLeft struct {
	Type MessageType `json:"type"`
	Name string      `json:"name"`
}

// HandStart is sent to each player when a new hand begins. HoleCards are
// the recipient's own cards; other players' cards are never sent before
// showdown.
type HandStart struct {
	Type       MessageType `json:"type"`
	HandID     string      `json:"hand_id"`
	HoleCards  []string    `json:"hole_cards"`
	YourSeat   int         `json:"your_seat"`
	DealerSeat int         `json:"dealer_seat"`
	Players    []Player    `json:"players"`
	SmallBlind int         `json:"small_blind"`
	BigBlind   int         `json:"big_blind"`
}

// ActionRequest asks a player to choose their action. The server re-sends
// it if the chosen action is rejected.
type ActionRequest struct {
	Type         MessageType `json:"type"`
	Street       string      `json:"street"`
	ValidActions []string    `json:"valid_actions"`
	ToCall       int         `json:"to_call"`
	CurrentBet   int         `json:"current_bet"`
	Chips        int         `json:"chips"`
	Pot          int         `json:"pot"`
}

// PlayerAction is broadcast after each accepted action, blinds included.
type PlayerAction struct {
	Type       MessageType `json:"type"`
	Street     string      `json:"street"`
	Seat       int         `json:"seat"`
	Name       string      `json:"name"`
	Action     string      `json:"action"` // fold, check, call, raise, post_small_blind, post_big_blind
	AmountPaid int         `json:"amount_paid"`
	Pot        int         `json:"pot"`
}

// StreetChange is broadcast when community cards are revealed.
type StreetChange struct {
	Type   MessageType `json:"type"`
	Street string      `json:"street"`
	Board  []string    `json:"board"`
}

// HandResult is broadcast at hand completion.
type HandResult struct {
	Type     MessageType    `json:"type"`
	HandID   string         `json:"hand_id"`
	Winners  []Winner       `json:"winners"`
	Board    []string       `json:"board"`
	Pot      int            `json:"pot"`
	Showdown []ShowdownHand `json:"showdown,omitempty"`
}

// Winner info.
type Winner struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// ShowdownHand is a hand revealed at showdown or on fold.
type ShowdownHand struct {
	Name      string   `json:"name"`
	HoleCards []string `json:"hole_cards"`
	HandRank  string   `json:"hand_rank,omitempty"` // e.g. "two pair"
}

// Error message.
type Error struct {
	Type    MessageType `json:"type"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

package game

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
)

// Table owns the seated players and runs hands one at a time. Seats are
// 0-based and contiguous; departures renumber the remaining players so the
// rotation never has gaps. All methods are safe for concurrent use, but
// only one hand runs at a time.
type Table struct {
	logger   *log.Logger
	rng      *rand.Rand
	prompter ActionPrompter
	ranker   Ranker
	events   EventSink

	smallBlind   int
	bigBlind     int
	startingBank int

	mu         sync.Mutex
	players    []*Player // seat order, Seat == index between hands
	dealerSeat int
	hand       *Orchestrator // non-nil while a hand is running
}

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithTableBlinds sets the forced-bet amounts for every hand the table
// deals. Defaults are 5/10.
func WithTableBlinds(small, big int) TableOption {
	return func(t *Table) {
		t.smallBlind = small
		t.bigBlind = big
	}
}

// WithStartingBank sets the chips a player receives on joining. Default
// is 100.
func WithStartingBank(chips int) TableOption {
	return func(t *Table) {
		t.startingBank = chips
	}
}

// WithTableEvents sets the event sink passed to every hand. Defaults to
// NullSink.
func WithTableEvents(sink EventSink) TableOption {
	return func(t *Table) {
		t.events = sink
	}
}

// NewTable creates an empty table. The RNG shuffles each hand's deck and
// is required; see randutil for seeding.
func NewTable(logger *log.Logger, rng *rand.Rand, prompter ActionPrompter, ranker Ranker, opts ...TableOption) *Table {
	if rng == nil {
		panic("rng is required")
	}
	t := &Table{
		logger:       logger,
		rng:          rng,
		prompter:     prompter,
		ranker:       ranker,
		events:       NullSink{},
		smallBlind:   5,
		bigBlind:     10,
		startingBank: 100,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Join seats a new player with the starting bank. Joining while a hand is
// in progress is allowed; the player sits out until the next hand.
func (t *Table) Join(id string) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat := 0
	for _, q := range t.players {
		if q.ID == id {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySeated, id)
		}
		if q.Seat >= seat {
			seat = q.Seat + 1
		}
	}
	p := &Player{
		ID:   id,
		// Seat numbers can be sparse while a hand runs (departures
		// renumber afterwards), so take the next number past them all.
		Seat: seat,
		Bank: t.startingBank,
	}
	t.players = append(t.players, p)
	t.logger.Info("player joined", "player", id, "seat", p.Seat, "bank", p.Bank)
	return p, nil
}

// Leave removes a player. A departure during a hand forfeits the player's
// cards; the remaining seats shift down to stay contiguous, deferred to
// the end of the hand when one is running.
func (t *Table) Leave(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i, p := range t.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}

	t.players = append(t.players[:idx], t.players[idx+1:]...)
	t.logger.Info("player left", "player", id)

	if t.hand != nil {
		// The hand goroutine reads seat numbers without the table lock
		// and identifies the dealer by seat, so renumbering waits until
		// the hand settles.
		t.hand.RemovePlayer(id)
		return nil
	}

	for i, p := range t.players {
		p.Seat = i
	}
	if idx < t.dealerSeat {
		t.dealerSeat--
	}
	if t.dealerSeat >= len(t.players) {
		t.dealerSeat = 0
	}
	return nil
}

// Players returns a snapshot of the seated players.
func (t *Table) Players() []SeatState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seatStates(t.players)
}

// Seated returns the number of seated players.
func (t *Table) Seated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players)
}

// DealerSeat returns the seat holding the dealer button for the next hand.
func (t *Table) DealerSeat() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dealerSeat
}

// PlayHand deals and runs one complete hand with the currently seated
// players, blocking until settlement. After the hand, per-round state is
// cleared and the dealer button advances one seat.
func (t *Table) PlayHand(ctx context.Context) (*HandResult, error) {
	t.mu.Lock()
	if t.hand != nil {
		t.mu.Unlock()
		return nil, ErrHandInProgress
	}
	if len(t.players) < 2 {
		t.mu.Unlock()
		return nil, fmt.Errorf("%w: have %d", ErrNotEnoughPlayers, len(t.players))
	}
	seated := append([]*Player(nil), t.players...)
	hand := NewOrchestrator(t.logger, t.rng, seated, t.prompter, t.ranker,
		WithBlinds(t.smallBlind, t.bigBlind),
		WithDealerSeat(t.dealerSeat),
		WithEvents(t.events),
	)
	t.hand = hand
	t.mu.Unlock()

	// The hand runs without the table lock so Join and Leave stay
	// responsive while players are being prompted.
	result, err := hand.Run(ctx)

	t.mu.Lock()
	t.hand = nil
	for _, p := range seated {
		p.resetHand()
	}
	// Mid-hand departures leave seat numbers sparse. The button passes to
	// the first remaining seat past the old dealer, then seats compact.
	next := 0
	for i, p := range t.players {
		if p.Seat > t.dealerSeat {
			next = i
			break
		}
	}
	for i, p := range t.players {
		p.Seat = i
	}
	t.dealerSeat = next
	t.mu.Unlock()

	return result, err
}

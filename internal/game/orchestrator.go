package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tymlipari/MRECards/internal/deck"
	"github.com/tymlipari/MRECards/internal/handid"
)

// HandResult is the settlement of a completed hand.
type HandResult struct {
	Pot      int
	Winners  []string       // player IDs, seat order
	Payouts  map[string]int // player ID -> chips awarded
	Showdown bool           // false when the hand was won uncontested
}

// Orchestrator drives a single hand: blinds, hole cards, a betting round
// per street, community dealing, and settlement. It owns the authoritative
// state for the hand and processes one action at a time; the only
// cross-goroutine entry point is RemovePlayer.
type Orchestrator struct {
	logger   *log.Logger
	id       string
	deck     *deck.Deck
	board    *Board
	players  []*Player // seat order, fixed for the hand
	prompter ActionPrompter
	ranker   Ranker
	events   EventSink

	dealerSeat int
	smallBlind int
	bigBlind   int
	street     Street
	round      *BettingRound

	mu       sync.Mutex
	departed []string
}

// Option configures an Orchestrator during creation.
type Option func(*Orchestrator)

// WithBlinds sets the forced-bet amounts. Defaults are 5/10.
func WithBlinds(small, big int) Option {
	return func(o *Orchestrator) {
		o.smallBlind = small
		o.bigBlind = big
	}
}

// WithDealerSeat sets the dealer button. Default is seat 0.
func WithDealerSeat(seat int) Option {
	return func(o *Orchestrator) {
		o.dealerSeat = seat
	}
}

// WithDeck supplies a pre-shuffled deck, overriding the RNG. Intended for
// deterministic tests.
func WithDeck(d *deck.Deck) Option {
	return func(o *Orchestrator) {
		o.deck = d
	}
}

// WithEvents sets the event sink. Defaults to NullSink.
func WithEvents(sink EventSink) Option {
	return func(o *Orchestrator) {
		o.events = sink
	}
}

// NewOrchestrator creates the orchestrator for one hand. The RNG is
// required unless WithDeck provides a deck; randomness is always explicit
// so tests stay deterministic.
func NewOrchestrator(logger *log.Logger, rng *rand.Rand, players []*Player, prompter ActionPrompter, ranker Ranker, opts ...Option) *Orchestrator {
	if len(players) < 2 {
		panic("at least 2 players required")
	}
	id := handid.New()
	o := &Orchestrator{
		logger:     logger.With("hand", id),
		id:         id,
		board:      NewBoard(),
		players:    players,
		prompter:   prompter,
		ranker:     ranker,
		events:     NullSink{},
		smallBlind: 5,
		bigBlind:   10,
		street:     PreFlop,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.deck == nil {
		if rng == nil {
			panic("rng is required without an explicit deck")
		}
		o.deck = deck.New(rng)
	}
	if o.dealerSeat < 0 || o.dealerSeat >= len(players) {
		panic("dealer seat out of range")
	}
	return o
}

// HandID returns the unique identifier assigned to this hand.
func (o *Orchestrator) HandID() string {
	return o.id
}

// Street returns the current street.
func (o *Orchestrator) Street() Street {
	return o.street
}

// Board returns the board for the current hand.
func (o *Orchestrator) Board() *Board {
	return o.board
}

// RemovePlayer queues a departure. The player is forfeited (implicit
// fold) before the next action is awaited; if they were the player being
// prompted, the prompter is expected to fail the pending prompt.
func (o *Orchestrator) RemovePlayer(id string) {
	o.mu.Lock()
	o.departed = append(o.departed, id)
	o.mu.Unlock()
}

// Run plays the hand to completion and returns the settlement. Deck and
// board invariant violations abort the hand with an error; the caller
// resets for a fresh round rather than attempting partial recovery.
func (o *Orchestrator) Run(ctx context.Context) (*HandResult, error) {
	active := append([]*Player(nil), o.players...)
	n := len(active)

	sbIdx := (o.dealerSeat + 1) % n
	bbIdx := (o.dealerSeat + 2) % n
	o.postBlind(active[sbIdx], o.smallBlind)
	o.postBlind(active[bbIdx], o.bigBlind)

	if err := o.dealHole(); err != nil {
		return nil, err
	}
	o.events.Publish(HandStarted{
		HandID:     o.id,
		Players:    seatStates(o.players),
		DealerSeat: o.dealerSeat,
		SmallBlind: o.smallBlind,
		BigBlind:   o.bigBlind,
	})

	// Pre-flop betting opens with the player after the big blind and the
	// big blind as the bet to match.
	var err error
	active, err = o.runBetting(ctx, PreFlop, active, (bbIdx+1)%n, o.bigBlind)
	if err != nil {
		return nil, err
	}
	if len(active) == 1 {
		return o.settleUncontested(active[0])
	}

	streets := []struct {
		street Street
		cards  int
	}{
		{Flop, 3},
		{Turn, 1},
		{River, 1},
	}
	for _, st := range streets {
		o.resetStreetBets()
		if err := o.dealCommunity(st.street, st.cards); err != nil {
			return nil, err
		}
		active, err = o.runBetting(ctx, st.street, active, openerAfterDealer(active, o.dealerSeat), 0)
		if err != nil {
			return nil, err
		}
		if len(active) == 1 {
			return o.settleUncontested(active[0])
		}
	}

	o.street = Showdown
	active = o.dropDeparted(active)
	if len(active) == 1 {
		return o.settleUncontested(active[0])
	}
	return o.settleShowdown(active)
}

func (o *Orchestrator) postBlind(p *Player, amount int) {
	paid := p.pay(amount)
	p.StreetBet += paid
	o.board.AddToPot(paid)
	o.logger.Debug("blind posted", "player", p.ID, "seat", p.Seat, "amount", paid)
	o.events.Publish(BlindPosted{PlayerID: p.ID, Seat: p.Seat, Amount: paid, Pot: o.board.Pot()})
}

// dealHole gives each player one card, then another, going around the
// table twice.
func (o *Orchestrator) dealHole() error {
	for pass := 0; pass < 2; pass++ {
		for _, p := range o.players {
			c, err := o.deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing hole cards: %w", err)
			}
			p.Hand = append(p.Hand, c)
		}
	}
	return nil
}

// dealCommunity burns one card, then reveals count community cards.
func (o *Orchestrator) dealCommunity(street Street, count int) error {
	if _, err := o.deck.Draw(); err != nil {
		return fmt.Errorf("burning before %s: %w", street, err)
	}
	for i := 0; i < count; i++ {
		c, err := o.deck.Draw()
		if err != nil {
			return fmt.Errorf("dealing %s: %w", street, err)
		}
		if err := o.board.AddCard(c); err != nil {
			return fmt.Errorf("dealing %s: %w", street, err)
		}
	}
	o.logger.Debug("street dealt", "street", street, "board", o.board.Cards())
	o.events.Publish(StreetDealt{Street: street, Board: o.board.Cards()})
	return nil
}

func (o *Orchestrator) runBetting(ctx context.Context, street Street, active []*Player, opener, openingBet int) ([]*Player, error) {
	o.street = street
	o.round = newBettingRound(street, active, opener, openingBet, o.board)

	for {
		o.applyDepartures()
		p := o.round.ToAct()
		if p == nil {
			break
		}

		req := ActionRequest{
			PlayerID:     p.ID,
			Seat:         p.Seat,
			Street:       street,
			Legal:        o.round.LegalActions(p),
			CurrentBet:   o.round.CurrentBet(),
			Contribution: p.StreetBet,
			Bank:         p.Bank,
			Pot:          o.board.Pot(),
		}
		resp, err := o.prompter.PromptAction(ctx, req)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			// Unreachable players fold; the departure queue handles the
			// bookkeeping if they also left the table.
			o.logger.Warn("prompt failed, folding", "player", p.ID, "error", err)
			resp = ActionResponse{Action: Fold}
		}

		p.PendingRaise = resp.RaiseBy
		potBefore := o.board.Pot()
		if err := o.round.Apply(p, resp.Action); err != nil {
			if errors.Is(err, ErrIllegalAction) || errors.Is(err, ErrOutOfTurn) {
				// Rejected locally; re-prompt the same player without
				// advancing state.
				o.logger.Warn("action rejected", "player", p.ID, "action", resp.Action, "error", err)
				continue
			}
			return nil, err
		}

		if resp.Action == Fold {
			o.events.Publish(HandRevealed{PlayerID: p.ID, Seat: p.Seat, Hand: p.Hand})
		}
		o.logger.Debug("action applied",
			"player", p.ID,
			"street", street,
			"action", resp.Action,
			"paid", o.board.Pot()-potBefore,
			"pot", o.board.Pot())
		o.events.Publish(ActionTaken{
			PlayerID: p.ID,
			Seat:     p.Seat,
			Street:   street,
			Action:   resp.Action,
			Paid:     o.board.Pot() - potBefore,
			Pot:      o.board.Pot(),
		})
	}

	remaining := o.round.Active()
	o.round = nil
	return remaining, nil
}

// applyDepartures forfeits any players who left the table since the last
// action was processed.
func (o *Orchestrator) applyDepartures() {
	for _, id := range o.drainDepartures() {
		for _, p := range o.round.Active() {
			if p.ID == id {
				if o.round.Forfeit(p) {
					o.logger.Info("player departed mid-hand, folded", "player", id)
					o.events.Publish(PlayerDeparted{PlayerID: id})
				}
				break
			}
		}
	}
}

// dropDeparted removes players who left after the final betting round so a
// departed seat is never ranked or paid at showdown. The last remaining
// player keeps the pot even if they departed too.
func (o *Orchestrator) dropDeparted(active []*Player) []*Player {
	for _, id := range o.drainDepartures() {
		if len(active) <= 1 {
			break
		}
		for i, p := range active {
			if p.ID == id {
				active = append(active[:i], active[i+1:]...)
				o.logger.Info("player departed before showdown, folded", "player", id)
				o.events.Publish(PlayerDeparted{PlayerID: id})
				break
			}
		}
	}
	return active
}

func (o *Orchestrator) drainDepartures() []string {
	o.mu.Lock()
	departed := o.departed
	o.departed = nil
	o.mu.Unlock()
	return departed
}

func (o *Orchestrator) resetStreetBets() {
	for _, p := range o.players {
		p.resetStreet()
	}
}

func (o *Orchestrator) settleUncontested(winner *Player) (*HandResult, error) {
	pot := o.board.Pot()
	winner.Bank += pot
	res := &HandResult{
		Pot:      pot,
		Winners:  []string{winner.ID},
		Payouts:  map[string]int{winner.ID: pot},
		Showdown: false,
	}
	o.logger.Info("hand won uncontested", "player", winner.ID, "pot", pot)
	o.events.Publish(HandEnded{HandID: o.id, Result: res, Board: o.board.Cards()})
	return res, nil
}

func (o *Orchestrator) settleShowdown(active []*Player) (*HandResult, error) {
	final, err := o.board.FinalCards()
	if err != nil {
		return nil, err
	}

	holes := make([][2]deck.Card, len(active))
	for i, p := range active {
		if len(p.Hand) != 2 {
			return nil, fmt.Errorf("player %s has %d hole cards at showdown", p.ID, len(p.Hand))
		}
		holes[i] = [2]deck.Card{p.Hand[0], p.Hand[1]}
		o.events.Publish(HandRevealed{PlayerID: p.ID, Seat: p.Seat, Hand: p.Hand})
	}

	ordinals, err := o.ranker.RankHands(holes, final)
	if err != nil {
		return nil, fmt.Errorf("ranking hands: %w", err)
	}
	if len(ordinals) != len(active) {
		return nil, fmt.Errorf("ranker returned %d ordinals for %d hands", len(ordinals), len(active))
	}

	var winners []*Player
	for i, ord := range ordinals {
		if ord == 0 {
			winners = append(winners, active[i])
		}
	}
	if len(winners) == 0 {
		return nil, fmt.Errorf("ranker returned no best hand")
	}

	pot := o.board.Pot()
	share := pot / len(winners)
	remainder := pot % len(winners)
	payouts := make(map[string]int, len(winners))
	ids := make([]string, len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			// Winners are in seat order; an indivisible pot favors the
			// lowest seat.
			amount += remainder
		}
		w.Bank += amount
		payouts[w.ID] = amount
		ids[i] = w.ID
	}

	res := &HandResult{
		Pot:      pot,
		Winners:  ids,
		Payouts:  payouts,
		Showdown: true,
	}
	o.logger.Info("hand settled at showdown", "winners", ids, "pot", pot)
	o.events.Publish(HandEnded{HandID: o.id, Result: res, Board: o.board.Cards()})
	return res, nil
}

// openerAfterDealer finds the betting opener for post-flop streets: the
// player after the dealer, or the first remaining seat when the dealer has
// folded out of the hand.
func openerAfterDealer(active []*Player, dealerSeat int) int {
	for i, p := range active {
		if p.Seat == dealerSeat {
			return (i + 1) % len(active)
		}
	}
	return 0
}

func seatStates(players []*Player) []SeatState {
	states := make([]SeatState, len(players))
	for i, p := range players {
		states[i] = SeatState{ID: p.ID, Seat: p.Seat, Bank: p.Bank, StreetBet: p.StreetBet}
	}
	return states
}

package server

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/tymlipari/MRECards/internal/deck"
	"github.com/tymlipari/MRECards/internal/evaluator"
	"github.com/tymlipari/MRECards/internal/game"
	"github.com/tymlipari/MRECards/internal/protocol"
)

// pendingPrompt tracks the one player action the table is waiting on.
type pendingPrompt struct {
	player string
	legal  []game.Action
	ch     chan game.ActionResponse
}

// Session binds one table to its websocket clients. It is the table's
// ActionPrompter (relaying turn prompts to the acting player's connection)
// and its EventSink (translating game events to protocol broadcasts).
type Session struct {
	logger *log.Logger
	table  *game.Table
	clock  quartz.Clock

	minPlayers int
	handDelay  time.Duration

	mu       sync.Mutex
	conns    map[string]*Connection  // player name -> connection
	players  map[string]*game.Player // player name -> seat state
	pending  *pendingPrompt
	blinds   int // forced bets seen this hand, to label small vs big
	revealed []protocol.ShowdownHand
	board    []deck.Card
}

// NewSession creates a session and its table from the configured stakes.
func NewSession(logger *log.Logger, rng *rand.Rand, clock quartz.Clock, cfg TableSettings) *Session {
	s := &Session{
		logger:     logger.WithPrefix("session"),
		clock:      clock,
		minPlayers: cfg.MinPlayers,
		handDelay:  time.Duration(cfg.HandDelayMS) * time.Millisecond,
		conns:      make(map[string]*Connection),
		players:    make(map[string]*game.Player),
	}
	s.table = game.NewTable(logger, rng, s, evaluator.New(),
		game.WithTableBlinds(cfg.SmallBlind, cfg.BigBlind),
		game.WithStartingBank(cfg.StartingBank),
		game.WithTableEvents(s),
	)
	return s
}

// Table exposes the underlying table, mainly for tests.
func (s *Session) Table() *game.Table {
	return s.table
}

// Run deals hands whenever enough players are seated, pacing rounds with
// the clock so results stay on screen between hands. It returns when the
// context is canceled.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.wait(ctx, s.handDelay); err != nil {
			return err
		}
		if s.table.Seated() < s.minPlayers {
			continue
		}

		if _, err := s.table.PlayHand(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// Not enough players is routine when someone disconnects
			// between the check and the deal.
			if !errors.Is(err, game.ErrNotEnoughPlayers) {
				s.logger.Error("hand aborted", "error", err)
			}
		}
	}
}

func (s *Session) wait(ctx context.Context, d time.Duration) error {
	fired := make(chan struct{})
	timer := s.clock.AfterFunc(d, func() {
		close(fired)
	})
	defer timer.Stop()

	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join seats a connection's player at the table.
func (s *Session) Join(c *Connection, name string) error {
	if name == "" {
		return fmt.Errorf("player name required")
	}
	if c.Name() != "" {
		return fmt.Errorf("already joined as %s", c.Name())
	}

	p, err := s.table.Join(name)
	if err != nil {
		return err
	}
	c.SetName(name)

	s.mu.Lock()
	s.conns[name] = c
	s.players[name] = p
	s.mu.Unlock()

	_ = c.Send(&protocol.Welcome{
		Type:    protocol.TypeWelcome,
		Name:    name,
		Seat:    p.Seat,
		Chips:   p.Bank,
		Players: s.roster(),
	})
	s.broadcastExcept(name, &protocol.PlayerJoined{
		Type:  protocol.TypePlayerJoined,
		Name:  name,
		Seat:  p.Seat,
		Chips: p.Bank,
	})
	return nil
}

// Disconnect removes a departed connection's player from the table. A
// departure mid-hand forfeits the player's cards.
func (s *Session) Disconnect(c *Connection) {
	name := c.Name()
	if name == "" {
		return
	}

	s.mu.Lock()
	if s.conns[name] == c {
		delete(s.conns, name)
		delete(s.players, name)
	}
	s.mu.Unlock()

	if err := s.table.Leave(name); err != nil {
		s.logger.Debug("leave after disconnect", "player", name, "error", err)
		return
	}
	s.broadcast(&protocol.PlayerLeft{Type: protocol.TypePlayerLeft, Name: name})
}

// PromptAction implements game.ActionPrompter. It relays the prompt to the
// acting player's connection and blocks until the player answers, the
// connection drops, or the context is canceled. There is no answer timer.
func (s *Session) PromptAction(ctx context.Context, req game.ActionRequest) (game.ActionResponse, error) {
	s.mu.Lock()
	conn := s.conns[req.PlayerID]
	if conn == nil {
		s.mu.Unlock()
		return game.ActionResponse{}, fmt.Errorf("player %s is not connected", req.PlayerID)
	}
	p := &pendingPrompt{
		player: req.PlayerID,
		legal:  req.Legal,
		ch:     make(chan game.ActionResponse, 1),
	}
	s.pending = p
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.pending == p {
			s.pending = nil
		}
		s.mu.Unlock()
	}()

	toCall := req.CurrentBet - req.Contribution
	if toCall < 0 {
		toCall = 0
	}
	if err := conn.Send(&protocol.ActionRequest{
		Type:         protocol.TypeActionRequest,
		Street:       req.Street.String(),
		ValidActions: actionNames(req.Legal),
		ToCall:       toCall,
		CurrentBet:   req.CurrentBet,
		Chips:        req.Bank,
		Pot:          req.Pot,
	}); err != nil {
		return game.ActionResponse{}, fmt.Errorf("sending action request to %s: %w", req.PlayerID, err)
	}

	select {
	case resp := <-p.ch:
		return resp, nil
	case <-conn.Done():
		return game.ActionResponse{}, fmt.Errorf("player %s disconnected", req.PlayerID)
	case <-ctx.Done():
		return game.ActionResponse{}, ctx.Err()
	}
}

// HandleAction processes an Action message from a client, answering the
// pending prompt if it is that player's turn.
func (s *Session) HandleAction(c *Connection, msg *protocol.Action) error {
	name := c.Name()
	if name == "" {
		return fmt.Errorf("join before acting")
	}

	action, err := parseAction(msg.Action)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pending
	if p == nil || p.player != name {
		return fmt.Errorf("not your turn")
	}
	if !legalContains(p.legal, action) {
		return fmt.Errorf("%s is not a legal action now", msg.Action)
	}
	if action == game.Raise && msg.Amount <= 0 {
		return fmt.Errorf("raise amount must be positive")
	}

	select {
	case p.ch <- game.ActionResponse{Action: action, RaiseBy: msg.Amount}:
		s.pending = nil
		return nil
	default:
		return fmt.Errorf("action already submitted")
	}
}

// Publish implements game.EventSink. It runs on the hand's goroutine, so
// handlers only translate and queue messages.
func (s *Session) Publish(ev game.Event) {
	switch e := ev.(type) {
	case game.HandStarted:
		s.mu.Lock()
		s.blinds = 0
		s.revealed = nil
		s.board = nil
		s.mu.Unlock()
		s.sendHandStarts(e)

	case game.BlindPosted:
		s.mu.Lock()
		s.blinds++
		label := "post_small_blind"
		if s.blinds > 1 {
			label = "post_big_blind"
		}
		s.mu.Unlock()
		s.broadcast(&protocol.PlayerAction{
			Type:       protocol.TypePlayerAction,
			Street:     game.PreFlop.String(),
			Seat:       e.Seat,
			Name:       e.PlayerID,
			Action:     label,
			AmountPaid: e.Amount,
			Pot:        e.Pot,
		})

	case game.ActionTaken:
		s.broadcast(&protocol.PlayerAction{
			Type:       protocol.TypePlayerAction,
			Street:     e.Street.String(),
			Seat:       e.Seat,
			Name:       e.PlayerID,
			Action:     e.Action.String(),
			AmountPaid: e.Paid,
			Pot:        e.Pot,
		})

	case game.StreetDealt:
		s.mu.Lock()
		s.board = append([]deck.Card(nil), e.Board...)
		s.mu.Unlock()
		s.broadcast(&protocol.StreetChange{
			Type:   protocol.TypeStreetChange,
			Street: e.Street.String(),
			Board:  cardNames(e.Board),
		})

	case game.HandRevealed:
		s.recordReveal(e)

	case game.PlayerDeparted:
		// The disconnect path already broadcast PlayerLeft.

	case game.HandEnded:
		s.broadcastResult(e)
	}
}

// sendHandStarts delivers each seated player their private view of the
// new hand.
func (s *Session) sendHandStarts(e game.HandStarted) {
	roster := make([]protocol.Player, len(e.Players))
	for i, ps := range e.Players {
		roster[i] = protocol.Player{Seat: ps.Seat, Name: ps.ID, Chips: ps.Bank, Bet: ps.StreetBet}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ps := range e.Players {
		conn := s.conns[ps.ID]
		player := s.players[ps.ID]
		if conn == nil || player == nil {
			continue
		}
		_ = conn.Send(&protocol.HandStart{
			Type:       protocol.TypeHandStart,
			HandID:     e.HandID,
			HoleCards:  cardNames(player.Hand),
			YourSeat:   ps.Seat,
			DealerSeat: e.DealerSeat,
			Players:    roster,
			SmallBlind: e.SmallBlind,
			BigBlind:   e.BigBlind,
		})
	}
}

// recordReveal remembers a revealed hand for the end-of-hand result. The
// hand rank is only describable once the board is complete.
func (s *Session) recordReveal(e game.HandRevealed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh := protocol.ShowdownHand{Name: e.PlayerID, HoleCards: cardNames(e.Hand)}
	if len(s.board) == 5 && len(e.Hand) == 2 {
		var community [5]deck.Card
		copy(community[:], s.board)
		if desc, err := evaluator.Describe([2]deck.Card{e.Hand[0], e.Hand[1]}, community); err == nil {
			sh.HandRank = desc
		}
	}
	s.revealed = append(s.revealed, sh)
}

func (s *Session) broadcastResult(e game.HandEnded) {
	s.mu.Lock()
	revealed := s.revealed
	s.revealed = nil
	s.mu.Unlock()

	winners := make([]protocol.Winner, 0, len(e.Result.Winners))
	for _, id := range e.Result.Winners {
		winners = append(winners, protocol.Winner{Name: id, Amount: e.Result.Payouts[id]})
	}
	msg := &protocol.HandResult{
		Type:    protocol.TypeHandResult,
		HandID:  e.HandID,
		Winners: winners,
		Board:   cardNames(e.Board),
		Pot:     e.Result.Pot,
	}
	if e.Result.Showdown {
		msg.Showdown = revealed
	}
	s.broadcast(msg)
}

func (s *Session) broadcast(msg interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		_ = conn.Send(msg)
	}
}

func (s *Session) broadcastExcept(name string, msg interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for n, conn := range s.conns {
		if n != name {
			_ = conn.Send(msg)
		}
	}
}

func (s *Session) roster() []protocol.Player {
	players := s.table.Players()
	out := make([]protocol.Player, len(players))
	for i, p := range players {
		out[i] = protocol.Player{Seat: p.Seat, Name: p.ID, Chips: p.Bank, Bet: p.StreetBet}
	}
	return out
}

func parseAction(name string) (game.Action, error) {
	switch name {
	case "fold":
		return game.Fold, nil
	case "check":
		return game.Check, nil
	case "call":
		return game.Call, nil
	case "raise":
		return game.Raise, nil
	default:
		return 0, fmt.Errorf("invalid action: %s", name)
	}
}

func legalContains(legal []game.Action, a game.Action) bool {
	for _, l := range legal {
		if l == a {
			return true
		}
	}
	return false
}

func actionNames(actions []game.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.String()
	}
	return out
}

func cardNames(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

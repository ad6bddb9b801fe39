package game

import "fmt"

// Street represents one stage of community-card revelation.
type Street int

const (
	PreFlop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action in a betting round.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// BettingRound manages one street of betting among the players still
// contesting the pot. It owns the turn rotation and the completion check;
// per-player contribution state lives on the Player entries themselves.
//
// The round is complete exactly when every remaining player has acted and
// matched the current bet, or when only one player remains. A raise does
// not clear the other players' acted flags, so a round can complete
// without everyone responding to the latest raise amount.
type BettingRound struct {
	street Street
	active []*Player // seat order, players still in the hand
	turn   int       // index into active of the player to act
	bet    int       // highest total contribution required this street
	board  *Board
}

// newBettingRound opens a street of betting. The opener is an index into
// active; openingBet is the big blind pre-flop and zero after. Blind
// contributions are pre-seeded on the players by the orchestrator before
// the round starts, with their acted flags still clear so the blinds keep
// their chance to act.
func newBettingRound(street Street, active []*Player, opener, openingBet int, board *Board) *BettingRound {
	return &BettingRound{
		street: street,
		active: active,
		turn:   opener,
		bet:    openingBet,
		board:  board,
	}
}

// Street returns the street this round is betting on.
func (r *BettingRound) Street() Street {
	return r.street
}

// CurrentBet returns the total contribution required to stay in.
func (r *BettingRound) CurrentBet() int {
	return r.bet
}

// Active returns the players still contesting the pot, in seat order.
func (r *BettingRound) Active() []*Player {
	return r.active
}

// ToAct returns the player currently awaited, or nil once the round is
// complete.
func (r *BettingRound) ToAct() *Player {
	if r.Complete() {
		return nil
	}
	return r.active[r.turn]
}

// LegalActions returns the action set currently legal for p.
func (r *BettingRound) LegalActions(p *Player) []Action {
	actions := []Action{Fold}
	owed := r.bet - p.StreetBet
	if owed <= 0 {
		actions = append(actions, Check)
	} else {
		actions = append(actions, Call)
	}
	if p.Bank > owed {
		actions = append(actions, Raise)
	}
	return actions
}

// Apply processes an action for p, who must be the player to act. Raise
// amounts are read from p.PendingRaise. Illegal actions leave all state
// untouched so the caller can re-prompt.
func (r *BettingRound) Apply(p *Player, action Action) error {
	if r.Complete() {
		return fmt.Errorf("%w: round complete", ErrOutOfTurn)
	}
	if p != r.active[r.turn] {
		return fmt.Errorf("%w: %s", ErrOutOfTurn, p.ID)
	}

	switch action {
	case Fold:
		r.removeAt(r.turn)
		return nil

	case Check:
		if p.StreetBet != r.bet {
			return fmt.Errorf("%w: cannot check, %d owed", ErrIllegalAction, r.bet-p.StreetBet)
		}
		p.Acted = true

	case Call:
		paid := p.pay(r.bet - p.StreetBet)
		p.StreetBet += paid
		r.board.AddToPot(paid)
		p.Acted = true

	case Raise:
		amount := p.PendingRaise
		if amount <= 0 {
			return fmt.Errorf("%w: raise must be positive", ErrIllegalAction)
		}
		target := r.bet + amount
		paid := p.pay(target - p.StreetBet)
		p.StreetBet += paid
		r.board.AddToPot(paid)
		if p.StreetBet > r.bet {
			r.bet = p.StreetBet
		}
		p.Acted = true

	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalAction, action)
	}

	r.turn = (r.turn + 1) % len(r.active)
	return nil
}

// Forfeit folds p immediately, regardless of turn order. Used when a
// player leaves mid-round. Returns false if p was not in the round.
func (r *BettingRound) Forfeit(p *Player) bool {
	for i, q := range r.active {
		if q == p {
			r.removeAt(i)
			return true
		}
	}
	return false
}

// removeAt drops the player at index i and recomputes the turn cursor
// against the shrunk sequence so rotation neither skips nor repeats a
// player.
func (r *BettingRound) removeAt(i int) {
	r.active = append(r.active[:i], r.active[i+1:]...)
	if len(r.active) == 0 {
		r.turn = 0
		return
	}
	if i < r.turn {
		r.turn--
	}
	// Removing the cursor's own entry leaves it pointing at the next
	// player already.
	r.turn %= len(r.active)
}

// Complete reports whether betting has finished on this street: a single
// uncontested player remains, or every remaining player has acted and
// matched the current bet. A player whose bank is empty counts as matched
// even when short, since a capped wager leaves them nothing more to commit.
func (r *BettingRound) Complete() bool {
	if len(r.active) <= 1 {
		return true
	}
	for _, p := range r.active {
		if !p.Acted {
			return false
		}
		if p.StreetBet != r.bet && p.Bank > 0 {
			return false
		}
	}
	return true
}

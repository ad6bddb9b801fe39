package game

import (
	"github.com/tymlipari/MRECards/internal/deck"
)

// Player is the per-participant state slice the core tracks. Identity and
// bank persist across rounds within a session; hand and street state reset
// every round. Presentation of the player (avatar, cards in hand) lives
// entirely outside this package.
type Player struct {
	ID   string
	Seat int // 0-based turn order, renumbered on departure to stay contiguous
	Bank int // chips; never goes negative

	Hand         []deck.Card // 0, 1 or 2 cards
	StreetBet    int         // chips committed this street
	Acted        bool        // has acted this street
	PendingRaise int         // raise amount staged before the action is applied
}

// pay deducts up to amount from the bank and returns what was actually
// paid. Wagers exceeding the balance are capped, keeping the bank at zero
// rather than rejecting the action.
func (p *Player) pay(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > p.Bank {
		amount = p.Bank
	}
	p.Bank -= amount
	return amount
}

// resetStreet clears the per-street betting state.
func (p *Player) resetStreet() {
	p.StreetBet = 0
	p.Acted = false
	p.PendingRaise = 0
}

// resetHand clears all per-round state, leaving identity and bank intact.
func (p *Player) resetHand() {
	p.Hand = nil
	p.resetStreet()
}

package game

import (
	"fmt"

	"github.com/tymlipari/MRECards/internal/deck"
)

// Board holds the community cards and the pot for the current round.
// Community cards are append-only within a round and must reach exactly
// five before showdown evaluation.
type Board struct {
	cards []deck.Card
	pot   int
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{cards: make([]deck.Card, 0, 5)}
}

// AddCard appends a community card. Adding a sixth card is a dealing bug.
func (b *Board) AddCard(c deck.Card) error {
	if len(b.cards) >= 5 {
		return fmt.Errorf("board already has %d cards", len(b.cards))
	}
	b.cards = append(b.cards, c)
	return nil
}

// Cards returns the community cards dealt so far.
func (b *Board) Cards() []deck.Card {
	return b.cards
}

// AddToPot accumulates wagered chips.
func (b *Board) AddToPot(amount int) {
	if amount > 0 {
		b.pot += amount
	}
}

// Pot returns the accumulated pot.
func (b *Board) Pot() int {
	return b.pot
}

// FinalCards returns the five community cards for showdown evaluation,
// failing with ErrBoardNotFinal unless exactly five have been dealt.
func (b *Board) FinalCards() ([5]deck.Card, error) {
	var final [5]deck.Card
	if len(b.cards) != 5 {
		return final, fmt.Errorf("%w: have %d", ErrBoardNotFinal, len(b.cards))
	}
	copy(final[:], b.cards)
	return final, nil
}

// Reset clears the board for a new round.
func (b *Board) Reset() {
	b.cards = b.cards[:0]
	b.pot = 0
}

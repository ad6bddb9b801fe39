package deck

import (
	"errors"
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck.
const Size = 52

// ErrExhausted is returned by Draw once all 52 cards have been dealt.
// More draws than a full deck in one round means a sequencing bug in the
// caller, so the round should be aborted rather than retried.
var ErrExhausted = errors.New("deck exhausted")

// Deck holds the 52 unique cards in a fixed order with a cursor marking
// the next undrawn position. Create one per round and discard it when the
// round ends.
type Deck struct {
	cards []Card
	next  int
}

// New creates a full deck, shuffled with the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	for rank := Ace; rank <= King; rank++ {
		d.cards = append(d.cards, NewCard(rank, Hearts))
		d.cards = append(d.cards, NewCard(rank, Diamonds))
		d.cards = append(d.cards, NewCard(rank, Clubs))
		d.cards = append(d.cards, NewCard(rank, Spades))
	}
	d.Shuffle(rng)
	return d
}

// Shuffle performs an in-place Fisher–Yates shuffle and resets the draw
// cursor to the top of the deck.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.next = 0
}

// Draw returns the next undrawn card and advances the cursor. It fails
// with ErrExhausted once the deck is empty.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Remaining returns the number of undrawn cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

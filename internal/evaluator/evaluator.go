// Package evaluator ranks showdown hands. It adapts the table's card
// representation to github.com/paulhankin/poker, which does the actual
// 7-card evaluation.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/paulhankin/poker"

	"github.com/tymlipari/MRECards/internal/deck"
)

// Ranker implements game.Ranker on top of poker.Eval7.
type Ranker struct{}

// New returns a stateless Ranker.
func New() *Ranker {
	return &Ranker{}
}

// RankHands scores each player's best five-card hand from their two hole
// cards plus the community cards and returns one ordinal per player:
// 0 for the best hand, with tied hands sharing an ordinal.
func (Ranker) RankHands(holes [][2]deck.Card, community [5]deck.Card) ([]int, error) {
	var common [5]poker.Card
	for i, c := range community {
		pc, err := convert(c)
		if err != nil {
			return nil, fmt.Errorf("community card %d: %w", i, err)
		}
		common[i] = pc
	}

	scores := make([]int16, len(holes))
	for i, hole := range holes {
		var hand [7]poker.Card
		copy(hand[:5], common[:])
		for j, c := range hole {
			pc, err := convert(c)
			if err != nil {
				return nil, fmt.Errorf("hole card %d of hand %d: %w", j, i, err)
			}
			hand[5+j] = pc
		}
		scores[i] = poker.Eval7(&hand)
	}

	return ordinals(scores), nil
}

// Describe names the best hand formed by the hole and community cards,
// e.g. "two pair". Used for presentation only.
func Describe(hole [2]deck.Card, community [5]deck.Card) (string, error) {
	cards := make([]poker.Card, 0, 7)
	for _, c := range community {
		pc, err := convert(c)
		if err != nil {
			return "", err
		}
		cards = append(cards, pc)
	}
	for _, c := range hole {
		pc, err := convert(c)
		if err != nil {
			return "", err
		}
		cards = append(cards, pc)
	}
	return poker.Describe(cards)
}

// convert maps a deck.Card to the evaluator's representation. Both sides
// use Ace=1..King=13 and the same suit order, so the mapping is direct.
func convert(c deck.Card) (poker.Card, error) {
	return poker.MakeCard(poker.Suit(c.Suit), poker.Rank(c.Rank))
}

// ordinals converts raw scores (higher is better) to dense ranks starting
// at 0 for the best score.
func ordinals(scores []int16) []int {
	distinct := make([]int16, 0, len(scores))
	seen := make(map[int16]bool, len(scores))
	for _, s := range scores {
		if !seen[s] {
			seen[s] = true
			distinct = append(distinct, s)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] > distinct[j] })

	rank := make(map[int16]int, len(distinct))
	for i, s := range distinct {
		rank[s] = i
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = rank[s]
	}
	return out
}

package domain

import (
	"math/rand"
	"sort"
)

const (
	// DeckSize is the number of cards in play for the whole game.
	DeckSize = 36
	// HandSize is the replenishment target after each bout.
	HandSize = 6
	// MaxTablePairs caps the number of attacks in a single bout.
	MaxTablePairs = 6

	trumpPenalty = 20
)

// NewDeck returns an ordered 36-card deck, suit-major.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortHand orders a hand for display: non-trumps grouped by suit and
// ascending value, trumps last. Ordering never affects legality.
func SortHand(cards []Card, trump Suit) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		at, bt := a.IsTrump(trump), b.IsTrump(trump)
		if at != bt {
			return bt
		}
		if a.Suit != b.Suit {
			return a.Suit < b.Suit
		}
		return a.Rank < b.Rank
	})
}

// RemoveCard removes the first occurrence of card and reports whether it was present.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...), true
		}
	}
	return hand, false
}

// ContainsCard reports whether hand holds card.
func ContainsCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// LowestByWeight returns the index of the card with the lowest trump-adjusted
// weight, first one wins ties. It returns -1 for an empty slice.
func LowestByWeight(cards []Card, trump Suit) int {
	best := -1
	for i, c := range cards {
		if best == -1 || c.Weight(trump) < cards[best].Weight(trump) {
			best = i
		}
	}
	return best
}

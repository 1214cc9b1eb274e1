package domain

import (
	"fmt"
	"strings"
)

// Suit is one of the four French suits.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists suits in deck construction order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

var (
	suitCodes   = [...]string{"S", "H", "D", "C"}
	suitSymbols = [...]string{"♠", "♥", "♦", "♣"}
)

// Valid reports whether s is a known suit.
func (s Suit) Valid() bool { return s >= Spades && s <= Clubs }

func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitCodes[s]
}

// Symbol returns the unicode glyph for the suit.
func (s Suit) Symbol() string {
	if !s.Valid() {
		return "?"
	}
	return suitSymbols[s]
}

// IsRed reports whether the suit is printed in red.
func (s Suit) IsRed() bool { return s == Hearts || s == Diamonds }

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(suitCodes[s]), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit accepts a suit letter or glyph.
func ParseSuit(v string) (Suit, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for i := range suitCodes {
		if v == suitCodes[i] || v == suitSymbols[i] {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", v)
}

// Rank stores the card's numeric value (6..14).
type Rank int

const (
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Ranks lists ranks in ascending order.
var Ranks = []Rank{Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var faceNames = map[Rank]string{Jack: "J", Queen: "Q", King: "K", Ace: "A"}

// Valid reports whether r is in the 36-card range.
func (r Rank) Valid() bool { return r >= Six && r <= Ace }

func (r Rank) String() string {
	if name, ok := faceNames[r]; ok {
		return name
	}
	if !r.Valid() {
		return "?"
	}
	return fmt.Sprintf("%d", int(r))
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	parsed, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank accepts "6".."10", "J", "Q", "K" or "A".
func ParseRank(v string) (Rank, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for _, r := range Ranks {
		if r.String() == v {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", v)
}

// Card is an immutable playing card. Identity is the (suit, rank) pair.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value returns the numeric rank value (6..14).
func (c Card) Value() int { return int(c.Rank) }

// IsRed reports whether the card is a heart or diamond.
func (c Card) IsRed() bool { return c.Suit.IsRed() }

// IsTrump reports whether the card belongs to the trump suit.
func (c Card) IsTrump(trump Suit) bool { return c.Suit == trump }

// Weight is the trump-adjusted value used for ordering and bot heuristics.
func (c Card) Weight(trump Suit) int {
	if c.IsTrump(trump) {
		return c.Value() + trumpPenalty
	}
	return c.Value()
}

// Valid reports whether both suit and rank are in range.
func (c Card) Valid() bool { return c.Suit.Valid() && c.Rank.Valid() }

func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

// Label renders the card with its suit glyph, e.g. "10♥".
func (c Card) Label() string { return c.Rank.String() + c.Suit.Symbol() }

// ParseCard parses the String form, e.g. "10H", "QS" or "A♦".
func ParseCard(v string) (Card, error) {
	v = strings.TrimSpace(v)
	runes := []rune(v)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", v)
	}
	suit, err := ParseSuit(string(runes[len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", v, err)
	}
	rank, err := ParseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", v, err)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

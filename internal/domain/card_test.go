package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanBeat(t *testing.T) {
	tests := []struct {
		name      string
		attack    string
		candidate string
		want      bool
	}{
		{name: "higher same suit", attack: "6S", candidate: "7S", want: true},
		{name: "lower same suit", attack: "9S", candidate: "7S", want: false},
		{name: "equal value other suit", attack: "9S", candidate: "9C", want: false},
		{name: "trump beats plain", attack: "AS", candidate: "6H", want: true},
		{name: "plain never beats trump", attack: "6H", candidate: "AS", want: false},
		{name: "higher trump beats trump", attack: "6H", candidate: "7H", want: true},
		{name: "lower trump loses to trump", attack: "KH", candidate: "QH", want: false},
		{name: "different plain suits", attack: "6D", candidate: "AC", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanBeat(Hearts, mc(tt.attack), mc(tt.candidate)))
		})
	}
}

func TestCardDerivedValues(t *testing.T) {
	c := mc("QD")
	assert.Equal(t, 12, c.Value())
	assert.True(t, c.IsRed())
	assert.False(t, mc("QC").IsRed())
	assert.Equal(t, 12, c.Weight(Spades))
	assert.Equal(t, 32, c.Weight(Diamonds))
	assert.Equal(t, "QD", c.String())
	assert.Equal(t, "Q♦", c.Label())
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("10♥")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Hearts, Rank: Ten}, c)

	c, err = ParseCard(" as ")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Spades, Rank: Ace}, c)

	for _, bad := range []string{"", "5H", "10X", "H"} {
		_, err := ParseCard(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardJSONForm(t *testing.T) {
	data, err := json.Marshal(mc("10H"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"suit":"H","rank":"10"}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"suit":"C","rank":"K"}`), &c))
	assert.Equal(t, mc("KC"), c)

	assert.Error(t, json.Unmarshal([]byte(`{"suit":"Z","rank":"K"}`), &c))
}

func TestNewDeckIsComplete(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)
	seen := map[Card]bool{}
	for _, c := range deck {
		assert.True(t, c.Valid())
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)
}

func TestSortHandPutsTrumpsLast(t *testing.T) {
	hand := cards("6H", "AS", "7C", "6S", "KH", "9D")
	SortHand(hand, Hearts)
	assert.Equal(t, cards("6S", "AS", "9D", "7C", "6H", "KH"), hand)
}

func TestRemoveCard(t *testing.T) {
	hand := cards("6H", "7H", "8H")
	out, ok := RemoveCard(hand, mc("7H"))
	assert.True(t, ok)
	assert.Equal(t, cards("6H", "8H"), out)
	assert.Equal(t, cards("6H", "7H", "8H"), hand, "input is not modified")

	_, ok = RemoveCard(hand, mc("AH"))
	assert.False(t, ok)
}

func TestLowestByWeight(t *testing.T) {
	assert.Equal(t, -1, LowestByWeight(nil, Hearts))
	assert.Equal(t, 2, LowestByWeight(cards("6H", "AS", "7S"), Hearts), "trump 6 weighs 26")
}

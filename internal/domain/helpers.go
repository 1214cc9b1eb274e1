package domain

import (
	"fmt"
	"math/rand"
)

// MinPlayers and MaxPlayers bound the roster, human included.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// NewGame shuffles a fresh deck, fixes the trump and deals the opening hands.
// players[0] must be the human. The human attacks first.
func NewGame(id string, mode Mode, difficulty Difficulty, players []*Player, rng *rand.Rand) (*Game, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidSetup, len(players))
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidSetup, mode)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: difficulty %q", ErrInvalidSetup, difficulty)
	}
	for i, p := range players {
		if p.ID != i || p.Bot != (i != HumanID) {
			return nil, fmt.Errorf("%w: seat %d holds player %d", ErrInvalidSetup, i, p.ID)
		}
		p.Hand = nil
		p.IsOut = false
	}

	deck := ShuffleDeck(NewDeck(), rng)
	g := &Game{
		ID:          id,
		Mode:        mode,
		Difficulty:  difficulty,
		Deck:        deck,
		Trump:       deck[0],
		Players:     players,
		AttackerIdx: HumanID,
		DefenderIdx: 1,
		Selected:    -1,
		Phase:       PhaseIdle,
	}
	g.DealCards(HandSize)
	return g, nil
}

// DealCards tops every active hand up to n, starting at the attacker and
// going round the roster. Cards come off the tail of the deck.
func (g *Game) DealCards(n int) {
	count := len(g.Players)
	for step := 0; step < count && len(g.Deck) > 0; step++ {
		p := g.Players[(g.AttackerIdx+step)%count]
		if p.IsOut {
			continue
		}
		for len(p.Hand) < n && len(g.Deck) > 0 {
			last := len(g.Deck) - 1
			p.Hand = append(p.Hand, g.Deck[last])
			g.Deck = g.Deck[:last]
		}
	}
	g.sortHands()
}

func (g *Game) sortHands() {
	for _, p := range g.Players {
		SortHand(p.Hand, g.TrumpSuit())
	}
}

// LabelPayload is the advertised state of a hosted game.
type LabelPayload struct {
	Game     string `json:"game"`
	Mode     string `json:"mode"`
	Phase    string `json:"phase"`
	Players  int    `json:"players"`
	DeckSize int    `json:"deck_size"`
}

// ComputeLabel derives a match label from game state.
func ComputeLabel(g *Game) LabelPayload {
	return LabelPayload{
		Game:     "durak",
		Mode:     string(g.Mode),
		Phase:    string(g.Phase),
		Players:  len(g.Players),
		DeckSize: len(g.Deck),
	}
}

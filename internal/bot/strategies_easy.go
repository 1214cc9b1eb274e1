package bot

import (
	"math/rand"

	"durak/internal/domain"
)

// EasyBot plays any legal card and always tosses.
type EasyBot struct {
	rng *rand.Rand
}

func (b *EasyBot) CalculateMove(obs Observation) (domain.Move, error) {
	return decide(obs, b)
}

func (b *EasyBot) openCard(_ Observation, cards []domain.Card) domain.Card {
	return cards[b.rng.Intn(len(cards))]
}

func (b *EasyBot) tossCard(_ Observation, cards []domain.Card) domain.Card {
	return cards[b.rng.Intn(len(cards))]
}

func (b *EasyBot) shouldToss(Observation, domain.Card) bool { return true }

func (b *EasyBot) transferCard(_ Observation, cards []domain.Card) domain.Card {
	return cards[0]
}

func (b *EasyBot) defendCard(_ Observation, _ domain.Card, cards []domain.Card) (domain.Card, bool) {
	return cards[0], true
}

package bot

import (
	"math/rand"

	"durak/internal/domain"
)

// MediumBot spends its cheapest cards and, with probability Skill, holds
// back tosses that would waste trumps or high cards.
type MediumBot struct {
	Skill float64
	rng   *rand.Rand
}

func (b *MediumBot) CalculateMove(obs Observation) (domain.Move, error) {
	return decide(obs, b)
}

func (b *MediumBot) openCard(obs Observation, cards []domain.Card) domain.Card {
	return cheapest(cards, obs.Trump)
}

func (b *MediumBot) tossCard(obs Observation, cards []domain.Card) domain.Card {
	return cheapest(cards, obs.Trump)
}

func (b *MediumBot) shouldToss(obs Observation, card domain.Card) bool {
	return b.evaluateToss(obs, card)
}

func (b *MediumBot) transferCard(obs Observation, cards []domain.Card) domain.Card {
	return cheapest(cards, obs.Trump)
}

func (b *MediumBot) defendCard(obs Observation, _ domain.Card, cards []domain.Card) (domain.Card, bool) {
	return cheapest(cards, obs.Trump), true
}

// evaluateToss rolls against Skill. A failed roll tosses naively; a passed
// roll keeps trumps while the deck lasts and, against a taking defender,
// keeps trumps and high cards unless the hand is large.
func (b *MediumBot) evaluateToss(obs Observation, card domain.Card) bool {
	if b.rng.Float64() >= b.Skill {
		return true
	}
	trump := card.IsTrump(obs.Trump)
	if trump && obs.DeckSize > 0 {
		return false
	}
	if obs.Taking() && len(obs.Hand) <= largeHand {
		if trump || card.Value() >= highCardValue {
			return false
		}
	}
	return true
}

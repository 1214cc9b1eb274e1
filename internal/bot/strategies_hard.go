package bot

import (
	"durak/internal/domain"
)

// HardBot extends MediumBot with pair leads and defences that close ranks
// already on the table.
type HardBot struct {
	MediumBot
}

func (b *HardBot) CalculateMove(obs Observation) (domain.Move, error) {
	return decide(obs, b)
}

// openCard leads the lowest non-trump rank held twice when the defender can
// answer both, otherwise the cheapest card.
func (b *HardBot) openCard(obs Observation, cards []domain.Card) domain.Card {
	if obs.DefenderHandSize >= safePairMinDefender {
		counts := make(map[domain.Rank]int)
		for _, c := range cards {
			if !c.IsTrump(obs.Trump) {
				counts[c.Rank]++
			}
		}
		best := -1
		for i, c := range cards {
			if c.IsTrump(obs.Trump) || counts[c.Rank] < 2 || c.Value() > safePairMaxValue {
				continue
			}
			if best == -1 || c.Rank < cards[best].Rank {
				best = i
			}
		}
		if best >= 0 {
			return cards[best]
		}
	}
	return cheapest(cards, obs.Trump)
}

func (b *HardBot) defendCard(obs Observation, _ domain.Card, cards []domain.Card) (domain.Card, bool) {
	best, bestWeight := -1, 0
	for i, c := range cards {
		w := c.Weight(obs.Trump)
		if obs.Table.HasRank(c.Rank) {
			w -= closingRankBonus
		}
		if best == -1 || w < bestWeight {
			best, bestWeight = i, w
		}
	}
	return cards[best], true
}

package bot

import (
	"durak/internal/domain"
)

// policy holds the per-difficulty decisions; decide supplies the turn flow
// shared by every level.
type policy interface {
	openCard(obs Observation, cards []domain.Card) domain.Card
	tossCard(obs Observation, cards []domain.Card) domain.Card
	shouldToss(obs Observation, card domain.Card) bool
	transferCard(obs Observation, cards []domain.Card) domain.Card
	defendCard(obs Observation, attack domain.Card, cards []domain.Card) (domain.Card, bool)
}

func decide(obs Observation, p policy) (domain.Move, error) {
	switch {
	case len(obs.Legal) == 0:
		return domain.Move{}, ErrNoMove
	case obs.Defender:
		return defend(obs, p)
	case obs.Attacker:
		return attack(obs, p)
	default:
		// Only the attacker role tosses among bots.
		return domain.Move{}, ErrNoMove
	}
}

func attack(obs Observation, p policy) (domain.Move, error) {
	candidates := cardsOf(obs.legal(domain.MoveAttack))
	if obs.Phase == domain.PhaseIdle {
		if len(candidates) == 0 {
			return domain.Move{}, ErrNoMove
		}
		return attackMove(p.openCard(obs, candidates)), nil
	}
	if len(candidates) > 0 {
		card := p.tossCard(obs, candidates)
		if p.shouldToss(obs, card) {
			return attackMove(card), nil
		}
	}
	if obs.can(domain.MovePass) {
		return domain.Move{Kind: domain.MovePass, Pair: -1}, nil
	}
	return domain.Move{}, ErrNoMove
}

func defend(obs Observation, p policy) (domain.Move, error) {
	if transfers := cardsOf(obs.legal(domain.MoveTransfer)); len(transfers) > 0 {
		return domain.Move{Kind: domain.MoveTransfer, Card: p.transferCard(obs, transfers), Pair: -1}, nil
	}
	if target := firstOpen(obs.Table); target >= 0 && obs.can(domain.MoveDefend) {
		attackCard := obs.Table[target].Attack
		var beaters []domain.Card
		for _, c := range obs.Hand {
			if domain.CanBeat(obs.Trump, attackCard, c) {
				beaters = append(beaters, c)
			}
		}
		if len(beaters) > 0 {
			if card, ok := p.defendCard(obs, attackCard, beaters); ok {
				return domain.Move{Kind: domain.MoveDefend, Card: card, Pair: target}, nil
			}
		}
	}
	if obs.can(domain.MoveTake) {
		return domain.Move{Kind: domain.MoveTake, Pair: -1}, nil
	}
	return domain.Move{}, ErrNoMove
}

func attackMove(card domain.Card) domain.Move {
	return domain.Move{Kind: domain.MoveAttack, Card: card, Pair: -1}
}

func cardsOf(moves []domain.Move) []domain.Card {
	out := make([]domain.Card, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.Card)
	}
	return out
}

func firstOpen(t domain.Table) int {
	for i, p := range t {
		if p.Open() {
			return i
		}
	}
	return -1
}

func cheapest(cards []domain.Card, trump domain.Suit) domain.Card {
	return cards[domain.LowestByWeight(cards, trump)]
}

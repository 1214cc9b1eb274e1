package domain

import "fmt"

// Attack puts card on the table, either opening the bout or tossing in.
func (g *Game) Attack(seat int, card Card) error {
	if err := g.checkAttack(seat, card); err != nil {
		return err
	}
	if g.Phase != PhaseTakeInProgress {
		if err := g.setPhase(PhaseDefensePending); err != nil {
			return err
		}
	}
	p := g.Players[seat]
	p.Hand, _ = RemoveCard(p.Hand, card)
	g.Table = append(g.Table, Pair{Attack: card})
	_, err := g.afterPlay(seat)
	return err
}

// Defend answers the earliest open attack that card beats.
func (g *Game) Defend(seat int, card Card) error {
	if err := g.checkDefender(seat, card); err != nil {
		return err
	}
	pair := g.earliestBeatable(card)
	if pair < 0 {
		return ErrCannotBeat
	}
	return g.defendAt(seat, card, pair)
}

// DefendPair answers the attack at index pair.
func (g *Game) DefendPair(seat int, card Card, pair int) error {
	if err := g.checkDefender(seat, card); err != nil {
		return err
	}
	if pair < 0 || pair >= len(g.Table) || !g.Table[pair].Open() {
		return fmt.Errorf("%w: pair %d is not open", ErrCannotBeat, pair)
	}
	if !CanBeat(g.TrumpSuit(), g.Table[pair].Attack, card) {
		return fmt.Errorf("%w: %s does not beat %s", ErrCannotBeat, card, g.Table[pair].Attack)
	}
	return g.defendAt(seat, card, pair)
}

func (g *Game) defendAt(seat int, card Card, pair int) error {
	next := PhaseDefensePending
	if g.Table.OpenCount() == 1 {
		next = PhaseAttackOpen
	}
	if err := g.setPhase(next); err != nil {
		return err
	}
	p := g.Players[seat]
	p.Hand, _ = RemoveCard(p.Hand, card)
	c := card
	g.Table[pair].Defend = &c
	over, err := g.afterPlay(seat)
	if over || err != nil {
		return err
	}
	// A defender without cards cannot face another attack.
	if len(p.Hand) == 0 && g.Table.Covered() {
		if err := g.setPhase(PhaseBoutResolving); err != nil {
			return err
		}
		g.Result = BoutBeaten
		_, err := g.ResolveBout()
		return err
	}
	return nil
}

// Transfer redirects the bout: card joins the table as a new open attack, the
// defender becomes attacker and the next active player defends.
func (g *Game) Transfer(seat int, card Card) error {
	if err := g.checkTransfer(seat, card); err != nil {
		return err
	}
	if err := g.setPhase(PhaseDefensePending); err != nil {
		return err
	}
	next := g.NextActive(seat)
	p := g.Players[seat]
	p.Hand, _ = RemoveCard(p.Hand, card)
	g.Table = append(g.Table, Pair{Attack: card})
	g.AttackerIdx = seat
	g.DefenderIdx = next
	g.PlayerPassedToss = false
	_, err := g.afterPlay(seat)
	return err
}

// Take commits the defender to picking up the table.
func (g *Game) Take(seat int) error {
	if err := g.checkTake(seat); err != nil {
		return err
	}
	return g.setPhase(PhaseTakeInProgress)
}

// Pass ends the attacker's part of the bout, or records that the human
// thrower declines to toss.
func (g *Game) Pass(seat int) error {
	if err := g.checkPass(seat); err != nil {
		return err
	}
	if seat != g.AttackerIdx {
		g.PlayerPassedToss = true
		return nil
	}
	result := BoutBeaten
	if g.Phase == PhaseTakeInProgress {
		result = BoutTaken
	}
	if err := g.setPhase(PhaseBoutResolving); err != nil {
		return err
	}
	g.Result = result
	return nil
}

// ResolveBout clears the table, rotates roles, replenishes hands and checks
// for the end of the game. It returns how the bout ended.
func (g *Game) ResolveBout() (BoutResult, error) {
	if g.Phase != PhaseBoutResolving {
		return BoutNone, ErrWrongPhase
	}
	result := g.Result
	cards := g.Table.Cards()
	defender := g.Defender()
	if result == BoutTaken {
		defender.Hand = append(defender.Hand, cards...)
	} else {
		g.Discard = append(g.Discard, cards...)
	}
	g.Table = nil
	g.Result = BoutNone
	g.PlayerPassedToss = false

	if result == BoutTaken {
		g.AttackerIdx = g.NextActive(g.DefenderIdx)
	} else {
		g.AttackerIdx = g.DefenderIdx
	}
	g.DealCards(HandSize)
	if over, err := g.checkWin(); over || err != nil {
		return result, err
	}
	if g.Players[g.AttackerIdx].IsOut {
		g.AttackerIdx = g.NextActive(g.AttackerIdx)
	}
	g.DefenderIdx = g.NextActive(g.AttackerIdx)
	return result, g.setPhase(PhaseIdle)
}

// afterPlay runs the immediate end checks once seat has played a card. It
// reports whether the game ended.
func (g *Game) afterPlay(seat int) (bool, error) {
	if len(g.Deck) > 0 || len(g.Players[seat].Hand) > 0 {
		return false, nil
	}
	if over, err := g.checkWin(); over || err != nil {
		return over, err
	}
	if g.Attacker().IsOut {
		g.AttackerIdx = g.nextThrower(g.AttackerIdx)
	}
	return false, nil
}

// nextThrower finds the next active player after idx who is not defending.
func (g *Game) nextThrower(idx int) int {
	next := g.NextActive(idx)
	if next == g.DefenderIdx {
		next = g.NextActive(next)
	}
	return next
}

// checkWin eliminates empty-handed players once the deck is gone and ends the
// game when the human is out or only one player is left.
func (g *Game) checkWin() (bool, error) {
	if len(g.Deck) == 0 {
		for _, p := range g.Players {
			if !p.IsOut && len(p.Hand) == 0 {
				p.IsOut = true
			}
		}
	}
	switch {
	case g.Human().IsOut:
		g.Outcome = OutcomeWin
	case g.ActiveCount() <= 1:
		g.Outcome = OutcomeLoss
	default:
		return false, nil
	}
	if err := g.setPhase(PhaseGameOver); err != nil {
		return false, err
	}
	return true, nil
}

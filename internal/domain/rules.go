package domain

import (
	"fmt"
	"sort"
)

// CanBeat reports whether candidate beats attack under the given trump:
// same suit and higher value, or a trump against a non-trump.
func CanBeat(trump Suit, attack, candidate Card) bool {
	if candidate.Suit == attack.Suit {
		return candidate.Rank > attack.Rank
	}
	return candidate.IsTrump(trump) && !attack.IsTrump(trump)
}

// CanAttack reports whether seat may put card on the table now.
func (g *Game) CanAttack(seat int, card Card) bool { return g.checkAttack(seat, card) == nil }

// CanTransfer reports whether seat may redirect the bout with card.
func (g *Game) CanTransfer(seat int, card Card) bool { return g.checkTransfer(seat, card) == nil }

// CanDefend reports whether seat may answer some open attack with card.
func (g *Game) CanDefend(seat int, card Card) bool {
	if g.checkDefender(seat, card) != nil {
		return false
	}
	return g.earliestBeatable(card) >= 0
}

// CanToss reports whether an attack of this rank can be added given only the
// table and defender capacity. The seat and hand are not checked.
func (g *Game) CanToss(card Card) bool {
	if len(g.Table) == 0 {
		return false
	}
	return g.tableAccepts(card) == nil
}

func (g *Game) checkActive(seat int) (*Player, error) {
	if g.IsOver() {
		return nil, ErrGameOver
	}
	p, err := g.player(seat)
	if err != nil {
		return nil, err
	}
	if p.IsOut {
		return nil, ErrPlayerOut
	}
	return p, nil
}

func (g *Game) checkAttack(seat int, card Card) error {
	p, err := g.checkActive(seat)
	if err != nil {
		return err
	}
	if !ContainsCard(p.Hand, card) {
		return ErrCardNotInHand
	}
	if g.Phase == PhaseIdle {
		if seat != g.AttackerIdx {
			return fmt.Errorf("%w: only the attacker opens a bout", ErrNotYourRole)
		}
		return nil
	}
	if !g.Phase.TossPhase() {
		return ErrWrongPhase
	}
	if seat == g.DefenderIdx {
		return fmt.Errorf("%w: defender cannot toss", ErrNotYourRole)
	}
	if g.Phase == PhaseTakeInProgress && seat != g.AttackerIdx {
		return fmt.Errorf("%w: only the attacker tosses during a take", ErrNotYourRole)
	}
	if seat == HumanID && g.PlayerPassedToss && seat != g.AttackerIdx {
		return ErrAlreadyPassed
	}
	return g.tableAccepts(card)
}

func (g *Game) tableAccepts(card Card) error {
	if !g.Table.HasRank(card.Rank) {
		return ErrRankNotOnTable
	}
	if len(g.Table) >= MaxTablePairs {
		return ErrTableFull
	}
	// While taking, the defender's hand still holds everything they will absorb.
	if g.Table.OpenCount()+1 > len(g.Defender().Hand) {
		return ErrDefenderOverloaded
	}
	return nil
}

func (g *Game) checkDefender(seat int, card Card) error {
	p, err := g.checkActive(seat)
	if err != nil {
		return err
	}
	if seat != g.DefenderIdx {
		return fmt.Errorf("%w: not the defender", ErrNotYourRole)
	}
	if g.Phase != PhaseDefensePending {
		return ErrWrongPhase
	}
	if !ContainsCard(p.Hand, card) {
		return ErrCardNotInHand
	}
	return nil
}

func (g *Game) checkTransfer(seat int, card Card) error {
	if g.Mode != ModeTransfer {
		return fmt.Errorf("%w: mode is %s", ErrCannotTransfer, g.Mode)
	}
	if err := g.checkDefender(seat, card); err != nil {
		return err
	}
	if len(g.Table) == 0 || !g.Table.AllOpen() {
		return fmt.Errorf("%w: an attack was already answered", ErrCannotTransfer)
	}
	if card.Rank != g.Table[0].Attack.Rank {
		return fmt.Errorf("%w: rank does not match", ErrCannotTransfer)
	}
	if len(g.Table) >= MaxTablePairs {
		return ErrTableFull
	}
	next := g.NextActive(seat)
	if next < 0 {
		return fmt.Errorf("%w: nobody to transfer to", ErrCannotTransfer)
	}
	if len(g.Table)+1 > len(g.Players[next].Hand) {
		return fmt.Errorf("%w: next defender cannot answer", ErrDefenderOverloaded)
	}
	return nil
}

func (g *Game) checkTake(seat int) error {
	if _, err := g.checkActive(seat); err != nil {
		return err
	}
	if seat != g.DefenderIdx {
		return fmt.Errorf("%w: not the defender", ErrNotYourRole)
	}
	if g.Phase != PhaseDefensePending {
		return ErrWrongPhase
	}
	return nil
}

func (g *Game) checkPass(seat int) error {
	if _, err := g.checkActive(seat); err != nil {
		return err
	}
	if seat == g.AttackerIdx {
		if g.Phase != PhaseAttackOpen && g.Phase != PhaseTakeInProgress {
			return ErrWrongPhase
		}
		return nil
	}
	if seat == HumanID && seat != g.DefenderIdx {
		if g.Phase != PhaseDefensePending && g.Phase != PhaseAttackOpen {
			return ErrWrongPhase
		}
		if g.PlayerPassedToss {
			return ErrAlreadyPassed
		}
		return nil
	}
	return fmt.Errorf("%w: nothing to pass", ErrNotYourRole)
}

// earliestBeatable returns the first open pair card beats, or -1.
func (g *Game) earliestBeatable(card Card) int {
	for i, p := range g.Table {
		if p.Open() && CanBeat(g.TrumpSuit(), p.Attack, card) {
			return i
		}
	}
	return -1
}

// PreferredTargets lists the open pairs card can beat in the order offered to
// the human: same suit first, then higher attack value, then lower weight.
func (g *Game) PreferredTargets(card Card) []int {
	trump := g.TrumpSuit()
	var idx []int
	for i, p := range g.Table {
		if p.Open() && CanBeat(trump, p.Attack, card) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := g.Table[idx[a]].Attack, g.Table[idx[b]].Attack
		sa, sb := pa.Suit == card.Suit, pb.Suit == card.Suit
		if sa != sb {
			return sa
		}
		if pa.Rank != pb.Rank {
			return pa.Rank > pb.Rank
		}
		return pa.Weight(trump) < pb.Weight(trump)
	})
	return idx
}

// MoveKind names an action a seat can take.
type MoveKind string

const (
	MoveAttack   MoveKind = "attack"
	MoveDefend   MoveKind = "defend"
	MoveTransfer MoveKind = "transfer"
	MoveTake     MoveKind = "take"
	MovePass     MoveKind = "pass"
)

// Move is one legal action. Card is zero for take and pass; Pair is the
// target for defend moves.
type Move struct {
	Kind MoveKind `json:"kind"`
	Card Card     `json:"card"`
	Pair int      `json:"pair"`
}

func (m Move) String() string {
	switch m.Kind {
	case MoveTake, MovePass:
		return string(m.Kind)
	case MoveDefend:
		return fmt.Sprintf("%s %s@%d", m.Kind, m.Card, m.Pair)
	default:
		return fmt.Sprintf("%s %s", m.Kind, m.Card)
	}
}

// LegalMoves enumerates every action seat may take now. Attack and transfer
// moves follow hand order; defend moves target the earliest beatable pair.
func (g *Game) LegalMoves(seat int) []Move {
	p, err := g.checkActive(seat)
	if err != nil {
		return nil
	}
	var moves []Move
	for _, c := range p.Hand {
		if g.checkAttack(seat, c) == nil {
			moves = append(moves, Move{Kind: MoveAttack, Card: c, Pair: -1})
		}
	}
	for _, c := range p.Hand {
		if g.checkTransfer(seat, c) == nil {
			moves = append(moves, Move{Kind: MoveTransfer, Card: c, Pair: -1})
		}
	}
	for _, c := range p.Hand {
		if g.checkDefender(seat, c) != nil {
			break
		}
		if pair := g.earliestBeatable(c); pair >= 0 {
			moves = append(moves, Move{Kind: MoveDefend, Card: c, Pair: pair})
		}
	}
	if g.checkTake(seat) == nil {
		moves = append(moves, Move{Kind: MoveTake, Pair: -1})
	}
	if g.checkPass(seat) == nil {
		moves = append(moves, Move{Kind: MovePass, Pair: -1})
	}
	return moves
}

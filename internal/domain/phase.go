package domain

import "fmt"

// Phase is the state of the bout machine.
type Phase string

const (
	// PhaseIdle: table empty, the attacker must open.
	PhaseIdle Phase = "idle"
	// PhaseDefensePending: at least one attack is unanswered.
	PhaseDefensePending Phase = "defense_pending"
	// PhaseAttackOpen: the table is covered; attackers may toss or call it beaten.
	PhaseAttackOpen Phase = "attack_open"
	// PhaseTakeInProgress: the defender will take; only the attacker may add cards.
	PhaseTakeInProgress Phase = "take_in_progress"
	// PhaseBoutResolving: the bout outcome is fixed and waiting to be applied.
	PhaseBoutResolving Phase = "bout_resolving"
	// PhaseGameOver: no further moves.
	PhaseGameOver Phase = "game_over"
)

var transitions = map[Phase][]Phase{
	PhaseIdle:           {PhaseDefensePending},
	PhaseDefensePending: {PhaseDefensePending, PhaseAttackOpen, PhaseTakeInProgress, PhaseGameOver},
	PhaseAttackOpen:     {PhaseDefensePending, PhaseBoutResolving, PhaseGameOver},
	PhaseTakeInProgress: {PhaseTakeInProgress, PhaseBoutResolving, PhaseGameOver},
	PhaseBoutResolving:  {PhaseIdle, PhaseGameOver},
	PhaseGameOver:       nil,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	_, ok := transitions[p]
	return ok
}

// CanTransition reports whether the machine may move from one phase to another.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TossPhase reports whether attack cards may be added in phase p.
func (p Phase) TossPhase() bool {
	return p == PhaseDefensePending || p == PhaseAttackOpen || p == PhaseTakeInProgress
}

// setPhase moves the machine to phase to. An illegal transition leaves the
// phase unchanged and returns ErrWrongPhase.
func (g *Game) setPhase(to Phase) error {
	if !CanTransition(g.Phase, to) {
		return fmt.Errorf("%w: %s -> %s", ErrWrongPhase, g.Phase, to)
	}
	g.Phase = to
	return nil
}

package bot

import (
	"errors"

	"durak/internal/domain"
)

// ErrNoMove is returned when the observing seat has nothing to decide.
var ErrNoMove = errors.New("bot has no move")

// Observation is the part of the game a bot may see from its seat: its own
// hand, the table and public counts. Opponent hands are not included.
type Observation struct {
	Seat             int
	Phase            domain.Phase
	Attacker         bool
	Defender         bool
	Hand             []domain.Card
	Trump            domain.Suit
	Table            domain.Table
	DeckSize         int
	DefenderHandSize int
	Legal            []domain.Move
}

// Observe builds the observation for seat.
func Observe(g *domain.Game, seat int) Observation {
	p := g.Players[seat]
	return Observation{
		Seat:             seat,
		Phase:            g.Phase,
		Attacker:         seat == g.AttackerIdx,
		Defender:         seat == g.DefenderIdx,
		Hand:             append([]domain.Card(nil), p.Hand...),
		Trump:            g.TrumpSuit(),
		Table:            g.Table.Clone(),
		DeckSize:         len(g.Deck),
		DefenderHandSize: len(g.Defender().Hand),
		Legal:            g.LegalMoves(seat),
	}
}

// Taking reports whether the defender has committed to take.
func (o Observation) Taking() bool { return o.Phase == domain.PhaseTakeInProgress }

func (o Observation) legal(kind domain.MoveKind) []domain.Move {
	var out []domain.Move
	for _, m := range o.Legal {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func (o Observation) can(kind domain.MoveKind) bool { return len(o.legal(kind)) > 0 }

// Brain is the interface that all bot strategies must implement. It must be
// deterministic given its random source.
type Brain interface {
	CalculateMove(obs Observation) (domain.Move, error)
}

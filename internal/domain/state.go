package domain

// HumanID is the roster identity reserved for the human player.
const HumanID = 0

// Mode selects the attack rule set.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeTransfer Mode = "transfer"
)

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool { return m == ModeNormal || m == ModeTransfer }

// Difficulty selects the bot policy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a supported difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// BoutResult records how a bout ended.
type BoutResult string

const (
	BoutNone   BoutResult = ""
	BoutBeaten BoutResult = "bito"
	BoutTaken  BoutResult = "take"
)

// Outcome is the game result from the human's point of view.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Player holds one participant's state. Order of Hand is cosmetic.
type Player struct {
	ID    int
	Slot  string
	Name  string
	Bot   bool
	Hand  []Card
	IsOut bool
	// Skill is the probability of playing the tactical move; bots only.
	Skill float64
}

// Game is the authoritative state of one Durak game.
type Game struct {
	ID         string
	Mode       Mode
	Difficulty Difficulty

	// Deck is drawn from the tail; Deck[0] is the trump card while cards remain.
	Deck    []Card
	Trump   Card
	Table   Table
	Discard []Card

	Players     []*Player
	AttackerIdx int
	DefenderIdx int

	// PlayerPassedToss is set once the human declines to toss in this bout.
	PlayerPassedToss bool
	// Selected is the human's cursor into their hand, -1 when none.
	Selected int

	Phase   Phase
	Result  BoutResult
	Outcome Outcome
}

// TrumpSuit returns the suit fixed by the trump card.
func (g *Game) TrumpSuit() Suit { return g.Trump.Suit }

// Attacker returns the player holding the attacker role.
func (g *Game) Attacker() *Player { return g.Players[g.AttackerIdx] }

// Defender returns the player holding the defender role.
func (g *Game) Defender() *Player { return g.Players[g.DefenderIdx] }

// Human returns the human player.
func (g *Game) Human() *Player { return g.Players[HumanID] }

// IsOver reports whether the game has finished.
func (g *Game) IsOver() bool { return g.Phase == PhaseGameOver }

// IsTaking reports whether the defender has committed to take.
func (g *Game) IsTaking() bool { return g.Phase == PhaseTakeInProgress }

// CardCount totals cards across every zone. It is always DeckSize.
func (g *Game) CardCount() int {
	n := len(g.Deck) + len(g.Discard) + len(g.Table.Cards())
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}

// ActiveCount returns the number of players still in the game.
func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.IsOut {
			n++
		}
	}
	return n
}

// NextActive returns the first non-eliminated player after idx in roster
// order, or -1 when nobody else is active.
func (g *Game) NextActive(idx int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		next := (idx + step) % n
		if next == idx {
			break
		}
		if !g.Players[next].IsOut {
			return next
		}
	}
	return -1
}

func (g *Game) player(seat int) (*Player, error) {
	if seat < 0 || seat >= len(g.Players) {
		return nil, ErrUnknownSeat
	}
	return g.Players[seat], nil
}

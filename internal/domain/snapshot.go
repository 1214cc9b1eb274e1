package domain

import "fmt"

// PlayerSnapshot is the persisted form of a Player.
type PlayerSnapshot struct {
	ID    int      `json:"id"`
	Slot  string   `json:"slot"`
	Name  string   `json:"name"`
	Bot   bool     `json:"bot"`
	Hand  []Card   `json:"hand"`
	IsOut bool     `json:"isOut"`
	Skill *float64 `json:"skill,omitempty"`
}

// Snapshot is the full persisted game state. Restoring it yields the same
// legal moves and roles as the game it was taken from.
type Snapshot struct {
	ID               string           `json:"id"`
	Mode             Mode             `json:"mode"`
	Difficulty       Difficulty       `json:"difficulty"`
	Players          []PlayerSnapshot `json:"players"`
	Deck             []Card           `json:"deck"`
	Trump            Card             `json:"trump"`
	Table            Table            `json:"table"`
	Discard          []Card           `json:"discard,omitempty"`
	AttackerIndex    int              `json:"attackerIndex"`
	DefenderIndex    int              `json:"defenderIndex"`
	PlayerPassedToss bool             `json:"playerPassedToss"`
	IsTaking         bool             `json:"isTaking"`
	Phase            Phase            `json:"phase,omitempty"`
	Result           BoutResult       `json:"result,omitempty"`
	Outcome          Outcome          `json:"outcome,omitempty"`
}

// Snapshot copies the game into its persisted form.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:               g.ID,
		Mode:             g.Mode,
		Difficulty:       g.Difficulty,
		Deck:             append([]Card(nil), g.Deck...),
		Trump:            g.Trump,
		Table:            g.Table.Clone(),
		Discard:          append([]Card(nil), g.Discard...),
		AttackerIndex:    g.AttackerIdx,
		DefenderIndex:    g.DefenderIdx,
		PlayerPassedToss: g.PlayerPassedToss,
		IsTaking:         g.IsTaking(),
		Phase:            g.Phase,
		Result:           g.Result,
		Outcome:          g.Outcome,
	}
	for _, p := range g.Players {
		ps := PlayerSnapshot{
			ID:    p.ID,
			Slot:  p.Slot,
			Name:  p.Name,
			Bot:   p.Bot,
			Hand:  append([]Card(nil), p.Hand...),
			IsOut: p.IsOut,
		}
		if p.Bot {
			skill := p.Skill
			ps.Skill = &skill
		}
		s.Players = append(s.Players, ps)
	}
	return s
}

// Restore rebuilds a game from a snapshot, rejecting anything that does not
// describe a reachable state. A missing discard pile is recomputed.
func Restore(s Snapshot) (*Game, error) {
	if len(s.Players) < MinPlayers || len(s.Players) > MaxPlayers {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidSnapshot, len(s.Players))
	}
	if !s.Mode.Valid() || !s.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: mode %q difficulty %q", ErrInvalidSnapshot, s.Mode, s.Difficulty)
	}
	if !s.Trump.Valid() {
		return nil, fmt.Errorf("%w: trump %v", ErrInvalidSnapshot, s.Trump)
	}

	g := &Game{
		ID:               s.ID,
		Mode:             s.Mode,
		Difficulty:       s.Difficulty,
		Deck:             append([]Card(nil), s.Deck...),
		Trump:            s.Trump,
		Table:            s.Table.Clone(),
		Discard:          append([]Card(nil), s.Discard...),
		AttackerIdx:      s.AttackerIndex,
		DefenderIdx:      s.DefenderIndex,
		PlayerPassedToss: s.PlayerPassedToss,
		Selected:         -1,
		Phase:            s.Phase,
		Result:           s.Result,
		Outcome:          s.Outcome,
	}
	for i, ps := range s.Players {
		if ps.ID != i || ps.Bot != (i != HumanID) {
			return nil, fmt.Errorf("%w: seat %d holds player %d", ErrInvalidSnapshot, i, ps.ID)
		}
		p := &Player{
			ID:    ps.ID,
			Slot:  ps.Slot,
			Name:  ps.Name,
			Bot:   ps.Bot,
			Hand:  append([]Card(nil), ps.Hand...),
			IsOut: ps.IsOut,
		}
		if ps.Bot {
			if ps.Skill == nil || *ps.Skill < 0 || *ps.Skill > 1 {
				return nil, fmt.Errorf("%w: bot %d has no skill in [0, 1]", ErrInvalidSnapshot, i)
			}
			p.Skill = *ps.Skill
		}
		g.Players = append(g.Players, p)
	}

	if g.Phase == "" {
		g.Phase = derivePhase(g.Table, s.IsTaking)
	}
	if !g.Phase.Valid() {
		return nil, fmt.Errorf("%w: phase %q", ErrInvalidSnapshot, g.Phase)
	}
	if len(s.Discard) == 0 {
		g.Discard = g.missingCards()
	}
	if err := g.validateCards(); err != nil {
		return nil, err
	}
	if err := g.validateRoles(); err != nil {
		return nil, err
	}
	return g, nil
}

func derivePhase(t Table, taking bool) Phase {
	switch {
	case taking:
		return PhaseTakeInProgress
	case len(t) == 0:
		return PhaseIdle
	case t.OpenCount() > 0:
		return PhaseDefensePending
	default:
		return PhaseAttackOpen
	}
}

func (g *Game) allCards() []Card {
	cards := append([]Card(nil), g.Deck...)
	cards = append(cards, g.Table.Cards()...)
	cards = append(cards, g.Discard...)
	for _, p := range g.Players {
		cards = append(cards, p.Hand...)
	}
	return cards
}

func (g *Game) missingCards() []Card {
	seen := make(map[Card]bool, DeckSize)
	for _, c := range g.allCards() {
		seen[c] = true
	}
	var out []Card
	for _, c := range NewDeck() {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}

func (g *Game) validateCards() error {
	seen := make(map[Card]bool, DeckSize)
	for _, c := range g.allCards() {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %v", ErrInvalidSnapshot, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidSnapshot, c)
		}
		seen[c] = true
	}
	if len(seen) != DeckSize {
		return fmt.Errorf("%w: %d cards", ErrInvalidSnapshot, len(seen))
	}
	if len(g.Deck) > 0 && g.Deck[0] != g.Trump {
		return fmt.Errorf("%w: trump %s is not the bottom card", ErrInvalidSnapshot, g.Trump)
	}
	if len(g.Table) > MaxTablePairs {
		return fmt.Errorf("%w: %d pairs on table", ErrInvalidSnapshot, len(g.Table))
	}
	for _, p := range g.Players {
		if p.IsOut && (len(p.Hand) > 0 || len(g.Deck) > 0) {
			return fmt.Errorf("%w: player %d out with cards in play", ErrInvalidSnapshot, p.ID)
		}
	}
	return nil
}

func (g *Game) validateRoles() error {
	n := len(g.Players)
	if g.AttackerIdx < 0 || g.AttackerIdx >= n || g.DefenderIdx < 0 || g.DefenderIdx >= n {
		return fmt.Errorf("%w: role index out of range", ErrInvalidSnapshot)
	}
	if g.Phase == PhaseGameOver {
		return nil
	}
	if g.AttackerIdx == g.DefenderIdx {
		return fmt.Errorf("%w: attacker and defender are both %d", ErrInvalidSnapshot, g.AttackerIdx)
	}
	if g.Attacker().IsOut || g.Defender().IsOut {
		return fmt.Errorf("%w: role held by an eliminated player", ErrInvalidSnapshot)
	}
	if g.Phase == PhaseBoutResolving && g.Result == BoutNone {
		return fmt.Errorf("%w: resolving bout without a result", ErrInvalidSnapshot)
	}
	if derived := derivePhase(g.Table, g.Phase == PhaseTakeInProgress); g.Phase != PhaseBoutResolving && derived != g.Phase {
		return fmt.Errorf("%w: phase %s does not match table", ErrInvalidSnapshot, g.Phase)
	}
	return nil
}

package app

import "durak/internal/domain"

// Button labels.
const (
	LabelPlayCard     = "PLAY THIS CARD"
	LabelSelectCard   = "SELECT A CARD"
	LabelWaitDefense  = "WAIT FOR DEFENSE…"
	LabelTossIn       = "TOSS IN A CARD"
	LabelPressBeaten  = "PRESS BEATEN"
	LabelPressDone    = "PRESS DONE"
	LabelBeaten       = "BEATEN"
	LabelDone         = "DONE"
	LabelTransfer     = "TRANSFER"
	LabelBeatWithThis = "BEAT WITH THIS"
	LabelTake         = "TAKE"
	LabelWaitAttack   = "WAIT FOR ATTACK…"
	LabelTossThis     = "TOSS THIS"
	LabelPass         = "PASS"
	LabelBotsPlaying  = "BOTS ARE PLAYING…"
	LabelGameOver     = "GAME OVER"
)

// Button is one of the two action buttons shown to the human.
type Button struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Visible bool   `json:"visible"`
}

// HandCard is a card in the human's hand as presented.
type HandCard struct {
	Card     domain.Card `json:"card"`
	Label    string      `json:"label"`
	Red      bool        `json:"red"`
	Playable bool        `json:"playable"`
	Selected bool        `json:"selected"`
}

// Opponent is a bot seat as presented: the hand is shown as a count only.
type Opponent struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Slot     string `json:"slot"`
	Cards    int    `json:"cards"`
	Out      bool   `json:"out"`
	Attacker bool   `json:"attacker"`
	Defender bool   `json:"defender"`
	Active   bool   `json:"active"`
}

// View is everything a renderer needs to draw the game for the human.
type View struct {
	GameID     string         `json:"gameId"`
	Mode       domain.Mode    `json:"mode"`
	Phase      domain.Phase   `json:"phase"`
	DeckSize   int            `json:"deckSize"`
	Trump      domain.Card    `json:"trump"`
	TrumpSuit  string         `json:"trumpSuit"`
	Table      domain.Table   `json:"table"`
	Hand       []HandCard     `json:"hand"`
	Opponents  []Opponent     `json:"opponents"`
	ActiveSeat int            `json:"activeSeat"`
	Attacker   int            `json:"attacker"`
	Defender   int            `json:"defender"`
	Main       Button         `json:"main"`
	Secondary  Button         `json:"secondary"`
	Outcome    domain.Outcome `json:"outcome,omitempty"`
}

// BuildView presents g from the human's seat.
func BuildView(g *domain.Game) View {
	v := View{
		GameID:     g.ID,
		Mode:       g.Mode,
		Phase:      g.Phase,
		DeckSize:   len(g.Deck),
		Trump:      g.Trump,
		TrumpSuit:  g.TrumpSuit().Symbol(),
		Table:      g.Table.Clone(),
		ActiveSeat: activeSeat(g),
		Attacker:   g.AttackerIdx,
		Defender:   g.DefenderIdx,
		Outcome:    g.Outcome,
	}
	if v.Table == nil {
		v.Table = domain.Table{}
	}

	human := g.Human()
	v.Hand = make([]HandCard, 0, len(human.Hand))
	for i, c := range human.Hand {
		v.Hand = append(v.Hand, HandCard{
			Card:     c,
			Label:    c.Label(),
			Red:      c.IsRed(),
			Playable: playable(g, c),
			Selected: i == g.Selected,
		})
	}
	for i, p := range g.Players {
		if !p.Bot {
			continue
		}
		v.Opponents = append(v.Opponents, Opponent{
			Seat:     i,
			Name:     p.Name,
			Slot:     p.Slot,
			Cards:    len(p.Hand),
			Out:      p.IsOut,
			Attacker: i == g.AttackerIdx,
			Defender: i == g.DefenderIdx,
			Active:   i == v.ActiveSeat,
		})
	}
	v.Main, v.Secondary = buttons(g)
	return v
}

// activeSeat is the seat expected to act: the defender while an attack is
// open, otherwise the attacker. -1 once the game is over.
func activeSeat(g *domain.Game) int {
	switch g.Phase {
	case domain.PhaseGameOver:
		return -1
	case domain.PhaseDefensePending:
		return g.DefenderIdx
	default:
		return g.AttackerIdx
	}
}

func playable(g *domain.Game, c domain.Card) bool {
	if g.DefenderIdx == domain.HumanID {
		return g.CanTransfer(domain.HumanID, c) || g.CanDefend(domain.HumanID, c)
	}
	return g.CanAttack(domain.HumanID, c)
}

func canTossAny(g *domain.Game) bool {
	for _, c := range g.Human().Hand {
		if g.CanAttack(domain.HumanID, c) {
			return true
		}
	}
	return false
}

func enabled(label string) Button { return Button{Label: label, Enabled: true, Visible: true} }
func disabled(label string) Button { return Button{Label: label, Visible: true} }

// buttons derives the main and secondary button from the human's role.
func buttons(g *domain.Game) (main, secondary Button) {
	if g.IsOver() || g.Human().IsOut {
		return disabled(LabelGameOver), Button{}
	}
	if g.Phase == domain.PhaseBoutResolving {
		return disabled(LabelBotsPlaying), Button{}
	}
	selected := g.Selected >= 0 && g.Selected < len(g.Human().Hand)

	if g.AttackerIdx == domain.HumanID {
		return attackerButtons(g, selected)
	}
	if g.DefenderIdx == domain.HumanID {
		return defenderButtons(g, selected)
	}

	if selected {
		return enabled(LabelTossThis), Button{}
	}
	if g.Phase == domain.PhaseAttackOpen && !g.PlayerPassedToss && canTossAny(g) {
		return disabled(LabelSelectCard), enabled(LabelPass)
	}
	return disabled(LabelBotsPlaying), Button{}
}

func attackerButtons(g *domain.Game, selected bool) (main, secondary Button) {
	switch g.Phase {
	case domain.PhaseAttackOpen:
		secondary = enabled(LabelBeaten)
	case domain.PhaseTakeInProgress:
		secondary = enabled(LabelDone)
	}
	if selected {
		return enabled(LabelPlayCard), secondary
	}
	switch g.Phase {
	case domain.PhaseIdle:
		return disabled(LabelSelectCard), secondary
	case domain.PhaseDefensePending:
		return disabled(LabelWaitDefense), secondary
	}
	if canTossAny(g) {
		return disabled(LabelTossIn), secondary
	}
	if g.Phase == domain.PhaseTakeInProgress {
		return disabled(LabelPressDone), secondary
	}
	return disabled(LabelPressBeaten), secondary
}

func defenderButtons(g *domain.Game, selected bool) (main, secondary Button) {
	if g.Phase != domain.PhaseDefensePending {
		return disabled(LabelWaitAttack), Button{}
	}
	secondary = enabled(LabelTake)
	if !selected {
		return enabled(LabelTake), secondary
	}
	card := g.Human().Hand[g.Selected]
	if g.CanTransfer(domain.HumanID, card) {
		return enabled(LabelTransfer), secondary
	}
	return enabled(LabelBeatWithThis), secondary
}

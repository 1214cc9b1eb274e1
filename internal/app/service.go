package app

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"durak/internal/bot"
	"durak/internal/config"
	"durak/internal/domain"
)

// Service contains Durak use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
	cfg config.GameConfig
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, cfg config.GameConfig) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, cfg: cfg}
}

var ErrUnknownMove = errors.New("unknown move kind")

// StartGame seats the human and settings.BotCount bots, deals and returns the
// game with one agent per seat (nil for the human).
func (s *Service) StartGame(id string, settings Settings) (*domain.Game, []*bot.Agent, []Event, error) {
	if err := settings.Validate(); err != nil {
		return nil, nil, nil, err
	}
	slots := bot.SlotsFor(settings.BotCount)
	players := []*domain.Player{{ID: domain.HumanID, Slot: bot.HumanSlot, Name: HumanName}}
	for i, slot := range slots {
		identity := bot.GetBotIdentity(i)
		players = append(players, &domain.Player{
			ID:    i + 1,
			Slot:  slot,
			Name:  identity.Name,
			Bot:   true,
			Skill: bot.RollSkill(s.rng, s.cfg.SkillMin, s.cfg.SkillMax),
		})
	}

	game, err := domain.NewGame(id, settings.Mode, settings.Difficulty, players, s.rng)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to start game: %w", err)
	}
	agents, err := s.AgentsFor(game)
	if err != nil {
		return nil, nil, nil, err
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:     game.ID,
			Mode:       game.Mode,
			Difficulty: game.Difficulty,
			Trump:      game.Trump,
			Players:    names,
		},
	}}
	return game, agents, events, nil
}

// AgentsFor builds the bot agents of g, indexed by seat. Used for new and
// restored games alike.
func (s *Service) AgentsFor(g *domain.Game) ([]*bot.Agent, error) {
	agents := make([]*bot.Agent, len(g.Players))
	for i, p := range g.Players {
		if !p.Bot {
			continue
		}
		brain, err := bot.NewBrain(g.Difficulty, p.Skill, s.rng)
		if err != nil {
			return nil, fmt.Errorf("failed to create bot %d: %w", i, err)
		}
		agents[i] = &bot.Agent{Seat: i, Name: p.Name, Strategy: brain}
	}
	return agents, nil
}

// before records what Apply needs to diff the state.
type before struct {
	phase domain.Phase
	out   []bool
}

func capture(g *domain.Game) before {
	b := before{phase: g.Phase, out: make([]bool, len(g.Players))}
	for i, p := range g.Players {
		b.out[i] = p.IsOut
	}
	return b
}

// Apply performs move for seat and returns the resulting events. The game is
// untouched when an error is returned.
func (s *Service) Apply(g *domain.Game, seat int, move domain.Move) ([]Event, error) {
	if g.IsOver() {
		return nil, domain.ErrGameOver
	}
	prev := capture(g)
	var events []Event

	switch move.Kind {
	case domain.MoveAttack:
		pair := len(g.Table)
		if err := g.Attack(seat, move.Card); err != nil {
			return nil, err
		}
		events = append(events, cardPlayed(seat, move.Card, move.Kind, pair))

	case domain.MoveDefend:
		pair := move.Pair
		if pair < 0 {
			pair = earliestTarget(g, move.Card)
		}
		if err := g.DefendPair(seat, move.Card, pair); err != nil {
			return nil, err
		}
		events = append(events, cardPlayed(seat, move.Card, move.Kind, pair))
		// An empty-handed defender closes the bout on the spot.
		if !g.IsOver() && len(g.Table) == 0 {
			events = append(events, boutEnded(g, domain.BoutBeaten), notice(NoticeBeaten))
		}

	case domain.MoveTransfer:
		if err := g.Transfer(seat, move.Card); err != nil {
			return nil, err
		}
		events = append(events,
			Event{Kind: EventTransferred, Payload: TransferredPayload{
				Seat:     seat,
				Card:     move.Card,
				Attacker: g.AttackerIdx,
				Defender: g.DefenderIdx,
			}},
			notice(NoticeTransfer),
		)

	case domain.MoveTake:
		if err := g.Take(seat); err != nil {
			return nil, err
		}
		events = append(events, Event{Kind: EventTaking, Payload: TakingPayload{Seat: seat}})
		if p := g.Players[seat]; p.Bot {
			events = append(events, notice(strings.ToUpper(p.Name)+" TAKES"))
		}

	case domain.MovePass:
		if err := g.Pass(seat); err != nil {
			return nil, err
		}
		events = append(events, Event{Kind: EventPassed, Payload: PassedPayload{Seat: seat}})
		if g.Phase == domain.PhaseBoutResolving && g.Result == domain.BoutBeaten {
			events = append(events, notice(NoticeBeaten))
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMove, move.Kind)
	}

	return append(events, s.endEvents(g, prev)...), nil
}

// ResolveBout finishes a decided bout and returns the resulting events.
func (s *Service) ResolveBout(g *domain.Game) ([]Event, error) {
	prev := capture(g)
	result, err := g.ResolveBout()
	if err != nil {
		return nil, err
	}
	events := []Event{boutEnded(g, result)}
	return append(events, s.endEvents(g, prev)...), nil
}

// endEvents reports eliminations and the end of the game since prev.
func (s *Service) endEvents(g *domain.Game, prev before) []Event {
	var events []Event
	for i, p := range g.Players {
		if p.IsOut && !prev.out[i] {
			events = append(events, Event{Kind: EventPlayerOut, Payload: PlayerOutPayload{Seat: i, Name: p.Name}})
		}
	}
	if g.IsOver() && prev.phase != domain.PhaseGameOver {
		events = append(events, Event{Kind: EventGameEnded, Payload: GameEndedPayload{Outcome: g.Outcome}})
	}
	return events
}

func cardPlayed(seat int, card domain.Card, kind domain.MoveKind, pair int) Event {
	return Event{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: seat, Card: card, Kind: kind, Pair: pair}}
}

func boutEnded(g *domain.Game, result domain.BoutResult) Event {
	return Event{Kind: EventBoutEnded, Payload: BoutEndedPayload{
		Result:   result,
		Attacker: g.AttackerIdx,
		Defender: g.DefenderIdx,
		DeckSize: len(g.Deck),
	}}
}

// earliestTarget returns the first open pair card beats, or -1.
func earliestTarget(g *domain.Game, card domain.Card) int {
	for i, p := range g.Table {
		if p.Open() && domain.CanBeat(g.TrumpSuit(), p.Attack, card) {
			return i
		}
	}
	return -1
}

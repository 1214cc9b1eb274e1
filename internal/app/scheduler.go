package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"durak/internal/bot"
	"durak/internal/config"
	"durak/internal/domain"
)

// Status describes what a session is waiting for.
type Status string

const (
	StatusAwaitingHuman Status = "awaiting_human"
	StatusAwaitingBot   Status = "awaiting_bot"
	StatusResolving     Status = "resolving"
	StatusFinished      Status = "finished"
	StatusStopped       Status = "stopped"
)

var ErrNoAgent = errors.New("no bot agent for seat")

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingBot
	pendingResolve
)

// pendingAction is the single deferred step of a session. It only runs while
// gen still matches the session generation.
type pendingAction struct {
	kind pendingKind
	due  time.Time
	gen  uint64
}

// Session runs one game for one human: it schedules bot steps and bout
// resolution, applies human intents and persists the game after every change.
// It never blocks or sleeps; the host calls Advance with the current time.
// A Session is not safe for concurrent use.
type Session struct {
	svc     *Service
	profile *Profile
	cfg     config.GameConfig

	game    *domain.Game
	agents  []*bot.Agent
	active  bool
	gen     uint64
	pending pendingAction

	// tossDeclined is set when the human has just passed on tossing; the next
	// bot step then runs after the shorter toss-pass delay.
	tossDeclined bool
}

// NewSession creates an idle session.
func NewSession(svc *Service, profile *Profile, cfg config.GameConfig) *Session {
	return &Session{svc: svc, profile: profile, cfg: cfg}
}

// Game returns the running game, or nil.
func (s *Session) Game() *domain.Game { return s.game }

// ID returns the id of the running game, or "".
func (s *Session) ID() string {
	if s.game == nil {
		return ""
	}
	return s.game.ID
}

// Start discards any saved game and deals a new one.
func (s *Session) Start(ctx context.Context, settings Settings, now time.Time) ([]Event, error) {
	game, agents, events, err := s.svc.StartGame(uuid.NewString(), settings)
	if err != nil {
		return nil, err
	}
	if err := s.profile.ClearSavedGame(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear saved game: %w", err)
	}
	s.load(game, agents)
	events = append(events, s.dispatch(now)...)
	if err := s.profile.SaveGame(ctx, game); err != nil {
		return events, fmt.Errorf("failed to save game: %w", err)
	}
	return events, nil
}

// Resume continues the saved game. It returns ErrNoSavedGame when there is
// nothing usable to resume.
func (s *Session) Resume(ctx context.Context, now time.Time) ([]Event, error) {
	game, err := s.profile.LoadSavedGame(ctx)
	if err != nil {
		return nil, err
	}
	agents, err := s.svc.AgentsFor(game)
	if err != nil {
		return nil, err
	}
	s.load(game, agents)
	return s.dispatch(now), nil
}

func (s *Session) load(game *domain.Game, agents []*bot.Agent) {
	s.game = game
	s.agents = agents
	s.active = true
	s.tossDeclined = false
	s.gen++
	s.pending = pendingAction{}
}

// Stop deactivates the session. Pending steps never run afterwards.
func (s *Session) Stop() {
	s.active = false
	s.gen++
	s.pending = pendingAction{}
}

// Exit stops the session and, when a game was in progress, abandons it by
// deleting the save.
func (s *Session) Exit(ctx context.Context) error {
	abandoned := s.playing()
	s.Stop()
	if !abandoned {
		return nil
	}
	if err := s.profile.ClearSavedGame(ctx); err != nil {
		return fmt.Errorf("failed to clear saved game: %w", err)
	}
	return nil
}

// Status reports what the session is waiting for.
func (s *Session) Status() Status {
	switch {
	case s.game != nil && s.game.IsOver():
		return StatusFinished
	case !s.active || s.game == nil:
		return StatusStopped
	case s.pending.kind == pendingResolve:
		return StatusResolving
	case s.pending.kind == pendingBot:
		return StatusAwaitingBot
	default:
		return StatusAwaitingHuman
	}
}

// NextDue returns when the pending step becomes runnable.
func (s *Session) NextDue() (time.Time, bool) {
	if !s.active || s.pending.kind == pendingNone {
		return time.Time{}, false
	}
	return s.pending.due, true
}

// View presents the running game. ok is false when there is none.
func (s *Session) View() (v View, ok bool) {
	if s.game == nil {
		return View{}, false
	}
	return BuildView(s.game), true
}

// Advance runs the pending step if it is due.
func (s *Session) Advance(ctx context.Context, now time.Time) ([]Event, error) {
	p := s.pending
	if !s.active || p.kind == pendingNone || p.gen != s.gen || now.Before(p.due) {
		return nil, nil
	}
	s.pending = pendingAction{}

	if p.kind == pendingResolve {
		events, err := s.svc.ResolveBout(s.game)
		if err != nil {
			return nil, err
		}
		s.game.Selected = -1
		return s.after(ctx, events, now)
	}
	return s.botStep(ctx, now)
}

func (s *Session) botStep(ctx context.Context, now time.Time) ([]Event, error) {
	seat := s.actor()
	if seat < 0 || seat >= len(s.agents) || s.agents[seat] == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoAgent, seat)
	}
	agent := s.agents[seat]
	move, err := agent.Play(s.game)
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", agent.Name, err)
	}
	// The bout stays open while the human may still toss.
	if move.Kind == domain.MovePass && s.humanMayToss() {
		return []Event{s.awaitInput()}, nil
	}
	events, err := s.svc.Apply(s.game, seat, move)
	if err != nil {
		return nil, fmt.Errorf("bot %s played %s: %w", agent.Name, move, err)
	}
	return s.after(ctx, events, now)
}

func (s *Session) humanMayToss() bool {
	return s.game.AttackerIdx != domain.HumanID && canTossAny(s.game)
}

// after persists a mutated game and schedules what comes next.
func (s *Session) after(ctx context.Context, events []Event, now time.Time) ([]Event, error) {
	s.gen++
	if s.game.IsOver() {
		return s.finish(ctx, events)
	}
	events = append(events, s.dispatch(now)...)
	if err := s.profile.SaveGame(ctx, s.game); err != nil {
		return events, fmt.Errorf("failed to save game: %w", err)
	}
	return events, nil
}

func (s *Session) finish(ctx context.Context, events []Event) ([]Event, error) {
	s.pending = pendingAction{}
	win := s.game.Outcome == domain.OutcomeWin
	text := NoticeLoss
	if win {
		text = NoticeWin
	}
	events = append(events, notice(text))

	// The save goes first so a finished game can never be resumed, even when
	// the result cannot be recorded.
	var errs []error
	if err := s.profile.ClearSavedGame(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear saved game: %w", err))
	}
	stats, err := s.profile.RecordResult(ctx, win)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to record result: %w", err))
		return events, errors.Join(errs...)
	}
	for i, ev := range events {
		if p, ok := ev.Payload.(GameEndedPayload); ok {
			p.Stats = stats
			events[i].Payload = p
		}
	}
	return events, errors.Join(errs...)
}

// actor is the seat whose move the game waits for.
func (s *Session) actor() int {
	if s.game.Phase == domain.PhaseDefensePending {
		return s.game.DefenderIdx
	}
	return s.game.AttackerIdx
}

// dispatch derives the next step from the phase and schedules it.
func (s *Session) dispatch(now time.Time) []Event {
	s.pending = pendingAction{}
	switch s.game.Phase {
	case domain.PhaseGameOver:
		return nil
	case domain.PhaseBoutResolving:
		s.schedule(pendingResolve, now.Add(s.cfg.ResolveDelay()))
		return nil
	}

	seat := s.actor()
	player := s.game.Players[seat]
	var events []Event
	if s.game.Phase == domain.PhaseIdle {
		if player.Bot {
			events = append(events, notice(strings.ToUpper(player.Name)+" ATTACKS"))
		} else {
			events = append(events, notice(NoticeYourTurn))
		}
	}
	if !player.Bot {
		return append(events, s.awaitInput())
	}

	delay := s.cfg.BotDelay()
	if s.tossDeclined {
		delay = s.cfg.TossPassDelay()
		s.tossDeclined = false
	}
	s.schedule(pendingBot, now.Add(delay))
	return events
}

func (s *Session) schedule(kind pendingKind, due time.Time) {
	s.pending = pendingAction{kind: kind, due: due, gen: s.gen}
}

func (s *Session) awaitInput() Event {
	main, secondary := buttons(s.game)
	return Event{Kind: EventAwaitInput, Payload: AwaitInputPayload{Main: main, Secondary: secondary}}
}

func (s *Session) playing() bool {
	return s.active && s.game != nil && !s.game.IsOver()
}

func (s *Session) validCard(idx int) bool {
	return idx >= 0 && idx < len(s.game.Human().Hand)
}

// Select toggles the human's card cursor. It reports whether anything changed.
func (s *Session) Select(idx int) bool {
	if !s.playing() || !s.validCard(idx) {
		return false
	}
	if s.game.Selected == idx {
		s.game.Selected = -1
	} else {
		s.game.Selected = idx
	}
	return true
}

// Play plays the card at idx in the human's hand.
func (s *Session) Play(ctx context.Context, idx int, now time.Time) ([]Event, error) {
	if !s.playing() || !s.validCard(idx) {
		return nil, nil
	}
	s.game.Selected = idx
	return s.playSelected(ctx, now)
}

// Main presses the main button: play the selected card, or take when
// defending with nothing selected.
func (s *Session) Main(ctx context.Context, now time.Time) ([]Event, error) {
	if !s.playing() {
		return nil, nil
	}
	if s.validCard(s.game.Selected) {
		return s.playSelected(ctx, now)
	}
	if s.game.DefenderIdx == domain.HumanID && s.game.Phase == domain.PhaseDefensePending {
		return s.humanMove(ctx, domain.Move{Kind: domain.MoveTake, Pair: -1}, now)
	}
	return nil, nil
}

// Secondary presses the secondary button: take when defending, otherwise
// pass (beaten, done or decline to toss).
func (s *Session) Secondary(ctx context.Context, now time.Time) ([]Event, error) {
	if !s.playing() {
		return nil, nil
	}
	kind := domain.MovePass
	if s.game.DefenderIdx == domain.HumanID {
		kind = domain.MoveTake
	}
	return s.humanMove(ctx, domain.Move{Kind: kind, Pair: -1}, now)
}

func (s *Session) playSelected(ctx context.Context, now time.Time) ([]Event, error) {
	g := s.game
	card := g.Human().Hand[g.Selected]
	move := domain.Move{Kind: domain.MoveAttack, Card: card, Pair: -1}
	if g.DefenderIdx == domain.HumanID {
		move.Kind = domain.MoveDefend
		if g.CanTransfer(domain.HumanID, card) {
			move.Kind = domain.MoveTransfer
		} else if targets := g.PreferredTargets(card); len(targets) > 0 {
			move.Pair = targets[0]
		}
	}
	return s.humanMove(ctx, move, now)
}

// humanMove applies a human move. Illegal moves leave the game unchanged and
// come back as events, not errors.
func (s *Session) humanMove(ctx context.Context, move domain.Move, now time.Time) ([]Event, error) {
	events, err := s.svc.Apply(s.game, domain.HumanID, move)
	if err != nil {
		return []Event{
			{Kind: EventIllegalMove, Payload: IllegalMovePayload{Seat: domain.HumanID, Reason: err.Error()}},
			notice(illegalNotice(move, err)),
		}, nil
	}
	s.game.Selected = -1
	if move.Kind == domain.MovePass && s.game.AttackerIdx != domain.HumanID {
		s.tossDeclined = true
	}
	return s.after(ctx, events, now)
}

func illegalNotice(move domain.Move, err error) string {
	switch {
	case errors.Is(err, domain.ErrWrongPhase),
		errors.Is(err, domain.ErrNotYourRole),
		errors.Is(err, domain.ErrPlayerOut),
		errors.Is(err, domain.ErrGameOver):
		return NoticeNotNow
	}
	switch move.Kind {
	case domain.MoveDefend:
		return NoticeCantBeat
	case domain.MoveTransfer:
		return NoticeCantTransfer
	case domain.MoveAttack:
		return NoticeCantToss
	}
	return NoticeNotNow
}

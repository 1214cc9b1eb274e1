package app

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"durak/internal/bot"
	"durak/internal/config"
	"durak/internal/domain"
	"durak/internal/ports"
	"durak/internal/ports/memory"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func mc(s string) domain.Card {
	c, err := domain.ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func cards(ss ...string) []domain.Card {
	out := make([]domain.Card, 0, len(ss))
	for _, s := range ss {
		out = append(out, mc(s))
	}
	return out
}

func pair(attack string, defend ...string) domain.Pair {
	p := domain.Pair{Attack: mc(attack)}
	if len(defend) > 0 {
		c := mc(defend[0])
		p.Defend = &c
	}
	return p
}

// setup describes a mid-game position. Seat 0 is the human; the discard pile
// is whatever the other zones leave out of the deck.
type setup struct {
	mode       domain.Mode
	difficulty domain.Difficulty
	attacker   int
	defender   int
	trump      string
	deck       []string
	table      domain.Table
	taking     bool
	passed     bool
	hands      [][]string
}

func (s setup) game(t *testing.T) *domain.Game {
	t.Helper()
	if s.mode == "" {
		s.mode = domain.ModeNormal
	}
	if s.difficulty == "" {
		s.difficulty = domain.DifficultyMedium
	}
	if s.attacker == s.defender {
		s.defender = (s.attacker + 1) % len(s.hands)
	}
	trump := s.trump
	if len(s.deck) > 0 {
		trump = s.deck[0]
	}
	skill := 0.7
	slots := bot.SlotsFor(len(s.hands) - 1)
	players := make([]domain.PlayerSnapshot, len(s.hands))
	for i, h := range s.hands {
		players[i] = domain.PlayerSnapshot{ID: i, Hand: cards(h...)}
		if i == domain.HumanID {
			players[i].Name = HumanName
			players[i].Slot = bot.HumanSlot
			continue
		}
		players[i].Bot = true
		players[i].Name = bot.GetBotIdentity(i - 1).Name
		players[i].Slot = slots[i-1]
		players[i].Skill = &skill
	}
	g, err := domain.Restore(domain.Snapshot{
		ID:               "test-game",
		Mode:             s.mode,
		Difficulty:       s.difficulty,
		Players:          players,
		Deck:             cards(s.deck...),
		Trump:            mc(trump),
		Table:            s.table,
		AttackerIndex:    s.attacker,
		DefenderIndex:    s.defender,
		PlayerPassedToss: s.passed,
		IsTaking:         s.taking,
	})
	require.NoError(t, err)
	return g
}

type harness struct {
	ctx     context.Context
	store   *memory.Store
	profile *Profile
	svc     *Service
	session *Session
	cfg     config.GameConfig
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	store := memory.NewStore()
	profile := NewProfile(store)
	svc := NewService(rand.New(rand.NewSource(7)), cfg)
	return &harness{
		ctx:     context.Background(),
		store:   store,
		profile: profile,
		svc:     svc,
		session: NewSession(svc, profile, cfg),
		cfg:     cfg,
	}
}

var errWriteFailed = errors.New("write failed")

// failingStore rejects writes to the listed keys.
type failingStore struct {
	ports.KeyValueStore
	keys map[string]bool
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.keys[key] {
		return errWriteFailed
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

// resume saves g and resumes it in the harness session at t0.
func (h *harness) resume(t *testing.T, g *domain.Game) []Event {
	t.Helper()
	require.NoError(t, h.profile.SaveGame(h.ctx, g))
	events, err := h.session.Resume(h.ctx, t0)
	require.NoError(t, err)
	return events
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func notices(events []Event) []string {
	var out []string
	for _, ev := range events {
		if p, ok := ev.Payload.(NoticePayload); ok {
			out = append(out, p.Text)
		}
	}
	return out
}

func find[T any](t *testing.T, events []Event, kind EventKind) T {
	t.Helper()
	for _, ev := range events {
		if ev.Kind == kind {
			p, ok := ev.Payload.(T)
			require.True(t, ok, "payload of %s is %T", kind, ev.Payload)
			return p
		}
	}
	require.Failf(t, "event not found", "no %s in %v", kind, kinds(events))
	var zero T
	return zero
}

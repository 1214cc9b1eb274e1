package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak/internal/domain"
)

func TestSessionStartWaitsForHuman(t *testing.T) {
	h := newHarness(t)
	events, err := h.session.Start(h.ctx, Settings{BotCount: 3, Mode: domain.ModeNormal, Difficulty: domain.DifficultyEasy}, t0)
	require.NoError(t, err)

	assert.Equal(t, []EventKind{EventGameStarted, EventNotice, EventAwaitInput}, kinds(events))
	assert.Equal(t, []string{NoticeYourTurn}, notices(events))
	assert.Equal(t, StatusAwaitingHuman, h.session.Status())
	assert.NotEmpty(t, h.session.ID())
	_, due := h.session.NextDue()
	assert.False(t, due)

	has, err := h.profile.HasSavedGame(h.ctx)
	require.NoError(t, err)
	assert.True(t, has, "a new game is saved immediately")
}

func TestSessionPlaysFullBout(t *testing.T) {
	h := newHarness(t)
	g := setup{
		deck:  []string{"AS", "10C"},
		hands: [][]string{{"6H", "6D", "9C"}, {"7H", "KC", "8D"}},
	}.game(t)
	h.resume(t, g)
	s := h.session

	events, err := s.Play(h.ctx, 0, t0)
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventCardPlayed}, kinds(events))
	assert.Equal(t, StatusAwaitingBot, s.Status())
	due, ok := s.NextDue()
	require.True(t, ok)
	assert.Equal(t, t0.Add(h.cfg.BotDelay()), due)

	events, err = s.Advance(h.ctx, t0.Add(time.Second))
	require.NoError(t, err)
	assert.Empty(t, events, "nothing runs before it is due")

	events, err = s.Advance(h.ctx, due)
	require.NoError(t, err)
	played := find[CardPlayedPayload](t, events, EventCardPlayed)
	assert.Equal(t, CardPlayedPayload{Seat: 1, Card: mc("7H"), Kind: domain.MoveDefend, Pair: 0}, played)
	await := find[AwaitInputPayload](t, events, EventAwaitInput)
	assert.Equal(t, disabled(LabelTossIn), await.Main)
	assert.Equal(t, enabled(LabelBeaten), await.Secondary)

	events, err = s.Secondary(h.ctx, due)
	require.NoError(t, err)
	assert.Equal(t, []string{NoticeBeaten}, notices(events))
	assert.Equal(t, StatusResolving, s.Status())

	resolveAt := due.Add(h.cfg.ResolveDelay())
	events, err = s.Advance(h.ctx, resolveAt)
	require.NoError(t, err)
	assert.Equal(t, BoutEndedPayload{Result: domain.BoutBeaten, Attacker: 1, Defender: 0}, find[BoutEndedPayload](t, events, EventBoutEnded))
	assert.Equal(t, []string{"ZHENYA ATTACKS"}, notices(events))
	assert.Equal(t, StatusAwaitingBot, s.Status())

	saved, err := h.profile.LoadSavedGame(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Game().Snapshot(), saved.Snapshot(), "every change is persisted")
}

func TestSessionStopDropsPendingStep(t *testing.T) {
	h := newHarness(t)
	h.resume(t, setup{
		deck:  []string{"AS", "10C"},
		hands: [][]string{{"6H", "6D", "9C"}, {"7H", "KC", "8D"}},
	}.game(t))
	s := h.session

	_, err := s.Play(h.ctx, 0, t0)
	require.NoError(t, err)
	before := s.Game().Snapshot()

	s.Stop()
	events, err := s.Advance(h.ctx, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, before, s.Game().Snapshot())
	assert.Equal(t, StatusStopped, s.Status())

	events, err = s.Main(h.ctx, t0)
	require.NoError(t, err)
	assert.Empty(t, events, "intents on a stopped session are ignored")
}

func TestSessionIllegalHumanMove(t *testing.T) {
	h := newHarness(t)
	h.resume(t, setup{
		attacker: 1,
		defender: 0,
		deck:     []string{"AS", "10C"},
		table:    domain.Table{pair("10H")},
		hands:    [][]string{{"6H", "JH", "9C"}, {"8C"}},
	}.game(t))
	s := h.session
	before := s.Game().Snapshot()

	events, err := s.Play(h.ctx, 0, t0)
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventIllegalMove, EventNotice}, kinds(events))
	assert.Equal(t, []string{NoticeCantBeat}, notices(events))
	assert.Equal(t, before, s.Game().Snapshot())

	events, err = s.Play(h.ctx, 1, t0)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAttackOpen, s.Game().Phase)
	assert.Equal(t, -1, s.Game().Selected)
	assert.Equal(t, StatusAwaitingBot, s.Status())
	assert.Contains(t, kinds(events), EventCardPlayed)
}

func TestSessionSelectToggles(t *testing.T) {
	h := newHarness(t)
	h.resume(t, setup{deck: []string{"AS"}, hands: [][]string{{"6H", "9C"}, {"7H"}}}.game(t))
	s := h.session

	assert.True(t, s.Select(1))
	assert.Equal(t, 1, s.Game().Selected)
	assert.True(t, s.Select(1))
	assert.Equal(t, -1, s.Game().Selected)
	assert.False(t, s.Select(5))

	s.Select(0)
	v, ok := s.View()
	require.True(t, ok)
	assert.Equal(t, enabled(LabelPlayCard), v.Main)
}

func TestSessionHumanWinRecordsStats(t *testing.T) {
	h := newHarness(t)
	h.resume(t, setup{trump: "AS", hands: [][]string{{"6H"}, {"7C", "8C"}}}.game(t))
	s := h.session

	events, err := s.Play(h.ctx, 0, t0)
	require.NoError(t, err)
	ended := find[GameEndedPayload](t, events, EventGameEnded)
	assert.Equal(t, domain.OutcomeWin, ended.Outcome)
	assert.Equal(t, Stats{Wins: 1, Score: WinPoints}, ended.Stats)
	assert.Equal(t, []string{NoticeWin}, notices(events))
	assert.Equal(t, StatusFinished, s.Status())

	has, err := h.profile.HasSavedGame(h.ctx)
	require.NoError(t, err)
	assert.False(t, has, "a finished game is not resumable")

	events, err = s.Secondary(h.ctx, t0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSessionFinishClearsSaveWhenStatsFail(t *testing.T) {
	h := newHarness(t)
	profile := NewProfile(&failingStore{KeyValueStore: h.store, keys: map[string]bool{StatsKey: true}})
	s := NewSession(h.svc, profile, h.cfg)
	require.NoError(t, profile.SaveGame(h.ctx, setup{trump: "AS", hands: [][]string{{"6H"}, {"7C", "8C"}}}.game(t)))
	_, err := s.Resume(h.ctx, t0)
	require.NoError(t, err)

	events, err := s.Play(h.ctx, 0, t0)
	require.ErrorIs(t, err, errWriteFailed)
	assert.Contains(t, kinds(events), EventGameEnded)
	assert.Equal(t, StatusFinished, s.Status())

	has, err := profile.HasSavedGame(h.ctx)
	require.NoError(t, err)
	assert.False(t, has, "a finished game is not resumable")
	_, err = profile.LoadSavedGame(h.ctx)
	assert.ErrorIs(t, err, ErrNoSavedGame)
}

func TestSessionHumanLossFloorsScore(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set(h.ctx, StatsKey, `{"wins":0,"losses":0,"score":20}`))
	h.resume(t, setup{
		attacker: 1,
		defender: 0,
		trump:    "AS",
		hands:    [][]string{{"6C", "7D"}, {"9H"}},
	}.game(t))
	s := h.session
	assert.Equal(t, StatusAwaitingBot, s.Status())

	events, err := s.Advance(h.ctx, t0.Add(h.cfg.BotDelay()))
	require.NoError(t, err)
	assert.Equal(t, PlayerOutPayload{Seat: 1, Name: "Zhenya"}, find[PlayerOutPayload](t, events, EventPlayerOut))
	ended := find[GameEndedPayload](t, events, EventGameEnded)
	assert.Equal(t, domain.OutcomeLoss, ended.Outcome)
	assert.Equal(t, Stats{Losses: 1, Score: 0}, ended.Stats)
	assert.Equal(t, []string{NoticeLoss}, notices(events))
}

func tossSetup() setup {
	return setup{
		attacker: 1,
		defender: 2,
		deck:     []string{"AS", "10S"},
		table:    domain.Table{pair("6H", "7H")},
		hands:    [][]string{{"6D", "JC"}, {"KC"}, {"8D", "9D"}},
	}
}

func TestBotAttackerWaitsForHumanToss(t *testing.T) {
	h := newHarness(t)
	h.resume(t, tossSetup().game(t))
	s := h.session

	events, err := s.Advance(h.ctx, t0.Add(h.cfg.BotDelay()))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventAwaitInput}, kinds(events))
	await := find[AwaitInputPayload](t, events, EventAwaitInput)
	assert.Equal(t, enabled(LabelPass), await.Secondary)
	assert.Equal(t, domain.PhaseAttackOpen, s.Game().Phase, "the bout stays open")
	assert.Equal(t, StatusAwaitingHuman, s.Status())

	now := t0.Add(5 * time.Second)
	events, err = s.Secondary(h.ctx, now)
	require.NoError(t, err)
	assert.Equal(t, PassedPayload{Seat: 0}, find[PassedPayload](t, events, EventPassed))
	due, ok := s.NextDue()
	require.True(t, ok)
	assert.Equal(t, now.Add(h.cfg.TossPassDelay()), due, "declining a toss hurries the bot")

	events, err = s.Advance(h.ctx, due)
	require.NoError(t, err)
	assert.Equal(t, PassedPayload{Seat: 1}, find[PassedPayload](t, events, EventPassed))
	assert.Equal(t, StatusResolving, s.Status())
}

func TestHumanTossWhileBotAttackerWaits(t *testing.T) {
	h := newHarness(t)
	h.resume(t, tossSetup().game(t))
	s := h.session

	_, err := s.Advance(h.ctx, t0.Add(h.cfg.BotDelay()))
	require.NoError(t, err)

	now := t0.Add(3 * time.Second)
	events, err := s.Play(h.ctx, 0, now)
	require.NoError(t, err)
	assert.Equal(t, CardPlayedPayload{Seat: 0, Card: mc("6D"), Kind: domain.MoveAttack, Pair: 1}, find[CardPlayedPayload](t, events, EventCardPlayed))
	assert.Equal(t, domain.PhaseDefensePending, s.Game().Phase)
	due, ok := s.NextDue()
	require.True(t, ok)
	assert.Equal(t, now.Add(h.cfg.BotDelay()), due)
}

func TestSessionResumeAndExit(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.Resume(h.ctx, t0)
	assert.ErrorIs(t, err, ErrNoSavedGame)

	h.resume(t, setup{deck: []string{"AS"}, hands: [][]string{{"6H", "9C"}, {"7H"}}}.game(t))
	assert.Equal(t, "test-game", h.session.ID())
	assert.Equal(t, StatusAwaitingHuman, h.session.Status())

	require.NoError(t, h.session.Exit(h.ctx))
	assert.Equal(t, StatusStopped, h.session.Status())
	has, err := h.profile.HasSavedGame(h.ctx)
	require.NoError(t, err)
	assert.False(t, has, "leaving mid-game abandons it")
}

func TestSessionSelfPlayFinishes(t *testing.T) {
	for _, bots := range []int{1, 2, 3} {
		h := newHarness(t)
		s := h.session
		now := t0
		_, err := s.Start(h.ctx, Settings{BotCount: bots, Mode: domain.ModeTransfer, Difficulty: domain.DifficultyMedium}, now)
		require.NoError(t, err)

		for step := 0; step < 2000 && s.Status() != StatusFinished; step++ {
			now = now.Add(time.Second)
			if s.Status() == StatusAwaitingHuman {
				humanStep(t, h, now)
				continue
			}
			due, ok := s.NextDue()
			require.True(t, ok, "status %s without a pending step", s.Status())
			_, err := s.Advance(h.ctx, due)
			require.NoError(t, err)
			assert.Equal(t, domain.DeckSize, s.Game().CardCount())
		}
		require.Equal(t, StatusFinished, s.Status(), "%d bots", bots)

		stats, err := h.profile.LoadStats(h.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Wins+stats.Losses)
	}
}

// humanStep plays the human's first legal move through the button intents.
func humanStep(t *testing.T, h *harness, now time.Time) {
	t.Helper()
	s := h.session
	g := s.Game()
	moves := g.LegalMoves(domain.HumanID)
	require.NotEmpty(t, moves, "human is awaited in %s without a legal move", g.Phase)

	var err error
	switch m := moves[0]; m.Kind {
	case domain.MoveTake, domain.MovePass:
		_, err = s.Secondary(h.ctx, now)
	default:
		idx := -1
		for i, c := range g.Human().Hand {
			if c == m.Card {
				idx = i
			}
		}
		_, err = s.Play(h.ctx, idx, now)
	}
	require.NoError(t, err)
}

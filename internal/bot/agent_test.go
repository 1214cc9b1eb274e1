package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak/internal/domain"
)

func apply(g *domain.Game, seat int, m domain.Move) error {
	switch m.Kind {
	case domain.MoveAttack:
		return g.Attack(seat, m.Card)
	case domain.MoveDefend:
		return g.DefendPair(seat, m.Card, m.Pair)
	case domain.MoveTransfer:
		return g.Transfer(seat, m.Card)
	case domain.MoveTake:
		return g.Take(seat)
	default:
		return g.Pass(seat)
	}
}

// selfPlay runs a whole game with a bot policy in every seat.
func selfPlay(t *testing.T, seed int64, level domain.Difficulty, mode domain.Mode, seats int) *domain.Game {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	players := make([]*domain.Player, seats)
	brains := make([]Brain, seats)
	for i := range players {
		players[i] = &domain.Player{ID: i, Bot: i != domain.HumanID}
		b, err := NewBrain(level, RollSkill(rng, DefaultSkillMin, DefaultSkillMax), rng)
		require.NoError(t, err)
		brains[i] = b
	}
	g, err := domain.NewGame("selfplay", mode, level, players, rng)
	require.NoError(t, err)

	for step := 0; step < 5000 && !g.IsOver(); step++ {
		if g.Phase == domain.PhaseBoutResolving {
			_, err := g.ResolveBout()
			require.NoError(t, err)
			continue
		}
		actor := g.AttackerIdx
		if g.Phase == domain.PhaseDefensePending {
			actor = g.DefenderIdx
		}
		move, err := brains[actor].CalculateMove(Observe(g, actor))
		require.NoError(t, err, "seat %d phase %s", actor, g.Phase)
		require.NoError(t, apply(g, actor, move), "seat %d %s", actor, move)
		require.Equal(t, domain.DeckSize, g.CardCount())
	}
	return g
}

func TestSelfPlayFinishes(t *testing.T) {
	levels := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
	for i, level := range levels {
		for seats := domain.MinPlayers; seats <= domain.MaxPlayers; seats++ {
			mode := domain.ModeNormal
			if seats%2 == 1 {
				mode = domain.ModeTransfer
			}
			g := selfPlay(t, int64(100*i+seats), level, mode, seats)
			assert.True(t, g.IsOver(), "%s with %d seats did not finish", level, seats)
			assert.NotEqual(t, domain.OutcomeNone, g.Outcome)
		}
	}
}

func TestSelfPlayIsReproducible(t *testing.T) {
	first := selfPlay(t, 2024, domain.DifficultyHard, domain.ModeTransfer, 4)
	second := selfPlay(t, 2024, domain.DifficultyHard, domain.ModeTransfer, 4)
	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestIdentities(t *testing.T) {
	assert.Equal(t, "Zhenya", GetBotIdentity(0).Name)
	assert.Equal(t, "Kolya", GetBotIdentity(2).Name)
	assert.Equal(t, "Zhenya", GetBotIdentity(3).Name, "wraps around the pool")

	assert.Equal(t, []string{"p2"}, SlotsFor(1))
	assert.Equal(t, []string{"p1", "p3"}, SlotsFor(2))
	assert.Equal(t, []string{"p1", "p2", "p3"}, SlotsFor(3))
	assert.Empty(t, SlotsFor(4))
}

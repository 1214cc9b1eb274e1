package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak/internal/domain"
	"durak/internal/ports/memory"
)

func TestRankName(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Novice"},
		{199, "Novice"},
		{200, "Amateur"},
		{999, "Experienced"},
		{1000, "Master"},
		{4999, "Sharper"},
		{5000, "Legend"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RankName(tt.score), "score %d", tt.score)
	}
}

func TestRecordResultScoring(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := NewProfile(store)

	stats, err := p.RecordResult(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, Stats{Wins: 1, Score: 100}, stats)

	stats, err = p.RecordResult(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Wins: 1, Losses: 1, Score: 50}, stats)

	stats, err = p.RecordResult(ctx, false)
	require.NoError(t, err)
	stats, err = p.RecordResult(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Wins: 1, Losses: 3, Score: 0}, stats, "score never goes below zero")

	loaded, err := p.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, loaded)
	assert.Equal(t, "Novice", loaded.Rank())
}

func TestLoadStatsIgnoresCorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, StatsKey, "{not json"))

	stats, err := NewProfile(store).LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestSettingsMergeOverDefaults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := NewProfile(store)

	settings, err := p.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
	assert.Equal(t, Settings{BotCount: 3, Mode: domain.ModeNormal, Sound: true, Difficulty: domain.DifficultyMedium}, settings)

	require.NoError(t, store.Set(ctx, SettingsKey, `{"botCount":1,"mode":"transfer"}`))
	settings, err = p.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{BotCount: 1, Mode: domain.ModeTransfer, Sound: true, Difficulty: domain.DifficultyMedium}, settings)

	require.NoError(t, store.Set(ctx, SettingsKey, `{"botCount":9,"mode":"poker","sound":false}`))
	settings, err = p.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{BotCount: 3, Mode: domain.ModeNormal, Sound: false, Difficulty: domain.DifficultyMedium}, settings)
}

func TestSaveSettingsValidates(t *testing.T) {
	ctx := context.Background()
	p := NewProfile(memory.NewStore())

	err := p.SaveSettings(ctx, Settings{BotCount: 5, Mode: domain.ModeNormal, Difficulty: domain.DifficultyEasy})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	want := Settings{BotCount: 2, Mode: domain.ModeTransfer, Sound: false, Difficulty: domain.DifficultyHard}
	require.NoError(t, p.SaveSettings(ctx, want))
	got, err := p.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSavedGameRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewProfile(memory.NewStore())
	g := setup{
		mode:  domain.ModeTransfer,
		deck:  []string{"AS", "10C"},
		table: domain.Table{pair("6H", "7H")},
		hands: [][]string{{"6D", "9C"}, {"KC", "8D"}, {"JD"}},
	}.game(t)

	has, err := p.HasSavedGame(ctx)
	require.NoError(t, err)
	assert.False(t, has)
	_, err = p.LoadSavedGame(ctx)
	assert.ErrorIs(t, err, ErrNoSavedGame)

	require.NoError(t, p.SaveGame(ctx, g))
	has, err = p.HasSavedGame(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	loaded, err := p.LoadSavedGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, g.Snapshot(), loaded.Snapshot())
	assert.Equal(t, g.LegalMoves(0), loaded.LegalMoves(0))

	require.NoError(t, p.ClearSavedGame(ctx))
	has, err = p.HasSavedGame(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCorruptSaveIsDropped(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"not json": "{{",
		"no roles": `{"id":"x","mode":"normal","difficulty":"easy","players":[{"id":0},{"id":1,"bot":true}],"trump":{"suit":"S","rank":"A"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := memory.NewStore()
			require.NoError(t, store.Set(ctx, SaveKey, raw))
			p := NewProfile(store)

			_, err := p.LoadSavedGame(ctx)
			assert.ErrorIs(t, err, ErrNoSavedGame)
			assert.Equal(t, 0, store.Len(), "corrupt save is removed")
		})
	}
}

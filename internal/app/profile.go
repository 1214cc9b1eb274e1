package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"durak/internal/domain"
	"durak/internal/ports"
)

// Storage keys of the profile documents.
const (
	StatsKey    = "durak_stats_v8"
	SettingsKey = "durak_settings_v1"
	SaveKey     = "durak_save_v1"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrNoSavedGame     = errors.New("no saved game")
)

// Stats is the human's running record.
type Stats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Score  int `json:"score"`
}

// Rank returns the title earned by the current score.
func (s Stats) Rank() string { return RankName(s.Score) }

var rankThresholds = []struct {
	below int
	name  string
}{
	{200, "Novice"},
	{500, "Amateur"},
	{1000, "Experienced"},
	{2000, "Master"},
	{5000, "Sharper"},
}

// RankName maps a score to its title.
func RankName(score int) string {
	for _, r := range rankThresholds {
		if score < r.below {
			return r.name
		}
	}
	return "Legend"
}

// Settings configures the next game.
type Settings struct {
	BotCount   int               `json:"botCount"`
	Mode       domain.Mode       `json:"mode"`
	Sound      bool              `json:"sound"`
	Difficulty domain.Difficulty `json:"difficulty"`
}

// DefaultSettings returns the settings of a fresh profile.
func DefaultSettings() Settings {
	return Settings{
		BotCount:   MaxBots,
		Mode:       domain.ModeNormal,
		Sound:      true,
		Difficulty: domain.DifficultyMedium,
	}
}

// Validate reports the first out-of-range field.
func (s Settings) Validate() error {
	if s.BotCount < MinBots || s.BotCount > MaxBots {
		return fmt.Errorf("%w: bot count %d", ErrInvalidSettings, s.BotCount)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: mode %q", ErrInvalidSettings, s.Mode)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidSettings, s.Difficulty)
	}
	return nil
}

// sanitize replaces invalid fields with their defaults.
func (s Settings) sanitize() Settings {
	def := DefaultSettings()
	if s.BotCount < MinBots || s.BotCount > MaxBots {
		s.BotCount = def.BotCount
	}
	if !s.Mode.Valid() {
		s.Mode = def.Mode
	}
	if !s.Difficulty.Valid() {
		s.Difficulty = def.Difficulty
	}
	return s
}

// Profile stores stats, settings and the saved game of one player.
type Profile struct {
	store ports.KeyValueStore
}

// NewProfile binds a profile to a key/value store.
func NewProfile(store ports.KeyValueStore) *Profile {
	return &Profile{store: store}
}

// LoadStats returns the stored stats, or zero stats when none are stored or
// the document is unreadable.
func (p *Profile) LoadStats(ctx context.Context) (Stats, error) {
	raw, found, err := p.store.Get(ctx, StatsKey)
	if err != nil || !found {
		return Stats{}, err
	}
	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return Stats{}, nil
	}
	return stats, nil
}

// RecordResult applies a finished game to the stats: a win adds 100 points,
// a loss takes 50 without going below zero.
func (p *Profile) RecordResult(ctx context.Context, win bool) (Stats, error) {
	stats, err := p.LoadStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if win {
		stats.Wins++
		stats.Score += WinPoints
	} else {
		stats.Losses++
		stats.Score = max(0, stats.Score-LossPoints)
	}
	if err := p.put(ctx, StatsKey, stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// LoadSettings returns the stored settings merged over the defaults.
func (p *Profile) LoadSettings(ctx context.Context) (Settings, error) {
	settings := DefaultSettings()
	raw, found, err := p.store.Get(ctx, SettingsKey)
	if err != nil || !found {
		return settings, err
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return DefaultSettings(), nil
	}
	return settings.sanitize(), nil
}

// SaveSettings validates and stores settings.
func (p *Profile) SaveSettings(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return p.put(ctx, SettingsKey, settings)
}

// SaveGame replaces the saved game with a snapshot of g.
func (p *Profile) SaveGame(ctx context.Context, g *domain.Game) error {
	return p.put(ctx, SaveKey, g.Snapshot())
}

// LoadSavedGame restores the saved game. A missing save returns
// ErrNoSavedGame; a corrupt one is removed and reported the same way.
func (p *Profile) LoadSavedGame(ctx context.Context) (*domain.Game, error) {
	raw, found, err := p.store.Get(ctx, SaveKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSavedGame
	}
	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, p.dropCorruptSave(ctx, err)
	}
	g, err := domain.Restore(snap)
	if err != nil {
		return nil, p.dropCorruptSave(ctx, err)
	}
	if g.IsOver() {
		return nil, p.dropCorruptSave(ctx, domain.ErrGameOver)
	}
	return g, nil
}

func (p *Profile) dropCorruptSave(ctx context.Context, cause error) error {
	if err := p.ClearSavedGame(ctx); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNoSavedGame, cause)
}

// ClearSavedGame deletes the saved game.
func (p *Profile) ClearSavedGame(ctx context.Context) error {
	return p.store.Remove(ctx, SaveKey)
}

// HasSavedGame reports whether a save is stored. It does not validate it.
func (p *Profile) HasSavedGame(ctx context.Context) (bool, error) {
	_, found, err := p.store.Get(ctx, SaveKey)
	return found, err
}

func (p *Profile) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return p.store.Set(ctx, key, string(data))
}

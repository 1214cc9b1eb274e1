package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"durak/internal/bot"
)

// GameConfig holds timing and bot tuning for hosted games.
type GameConfig struct {
	// BotDelayMs is the bot "thinking" pause before each action.
	BotDelayMs int `json:"bot_delay_ms"`
	// ResolveDelayMs is the pause between a decided bout and the table clearing.
	ResolveDelayMs int `json:"resolve_delay_ms"`
	// TossPassDelayMs is the pause before the attacker reacts to the human declining a toss.
	TossPassDelayMs int `json:"toss_pass_delay_ms"`
	// SkillMin and SkillMax bound the per-bot skill roll.
	SkillMin float64 `json:"skill_min"`
	SkillMax float64 `json:"skill_max"`
	// TickRate is the Nakama match loop frequency.
	TickRate int `json:"tick_rate"`
	// BotIdentitiesPath points at the bot name pool.
	BotIdentitiesPath string `json:"bot_identities_path"`
}

// Default returns the built-in configuration.
func Default() GameConfig {
	return GameConfig{
		BotDelayMs:        1500,
		ResolveDelayMs:    1500,
		TossPassDelayMs:   500,
		SkillMin:          bot.DefaultSkillMin,
		SkillMax:          bot.DefaultSkillMax,
		TickRate:          10,
		BotIdentitiesPath: "data/bot_identities.json",
	}
}

// BotDelay returns BotDelayMs as a duration.
func (c GameConfig) BotDelay() time.Duration { return time.Duration(c.BotDelayMs) * time.Millisecond }

// ResolveDelay returns ResolveDelayMs as a duration.
func (c GameConfig) ResolveDelay() time.Duration {
	return time.Duration(c.ResolveDelayMs) * time.Millisecond
}

// TossPassDelay returns TossPassDelayMs as a duration.
func (c GameConfig) TossPassDelay() time.Duration {
	return time.Duration(c.TossPassDelayMs) * time.Millisecond
}

// Validate rejects configurations the scheduler cannot run with.
func (c GameConfig) Validate() error {
	if c.BotDelayMs < 0 || c.ResolveDelayMs < 0 || c.TossPassDelayMs < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.SkillMin < 0 || c.SkillMax > 1 || c.SkillMin > c.SkillMax {
		return fmt.Errorf("skill range [%v, %v] outside [0, 1]", c.SkillMin, c.SkillMax)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive")
	}
	return nil
}

// Environment keys read by ApplyEnv.
const (
	EnvBotDelayMs      = "DURAK_BOT_DELAY_MS"
	EnvResolveDelayMs  = "DURAK_RESOLVE_DELAY_MS"
	EnvTossPassDelayMs = "DURAK_TOSS_PASS_DELAY_MS"
	EnvSkillMin        = "DURAK_SKILL_MIN"
	EnvSkillMax        = "DURAK_SKILL_MAX"
	EnvTickRate        = "DURAK_TICK_RATE"
	EnvBotIdentities   = "DURAK_BOT_IDENTITIES"
)

// ApplyEnv overrides fields from a key/value environment, such as the Nakama
// runtime env or a parsed .env file. Unknown keys are ignored.
func (c *GameConfig) ApplyEnv(env map[string]string) error {
	ints := map[string]*int{
		EnvBotDelayMs:      &c.BotDelayMs,
		EnvResolveDelayMs:  &c.ResolveDelayMs,
		EnvTossPassDelayMs: &c.TossPassDelayMs,
		EnvTickRate:        &c.TickRate,
	}
	for key, dst := range ints {
		v, ok := env[key]
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}
	floats := map[string]*float64{
		EnvSkillMin: &c.SkillMin,
		EnvSkillMax: &c.SkillMax,
	}
	for key, dst := range floats {
		v, ok := env[key]
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = f
	}
	if v := env[EnvBotIdentities]; v != "" {
		c.BotIdentitiesPath = v
	}
	return c.Validate()
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Missing
// fields keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = fmt.Errorf("invalid game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns a copy of the global game configuration, or the
// defaults when nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

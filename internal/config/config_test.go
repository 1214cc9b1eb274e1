package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 1500*time.Millisecond, c.BotDelay())
	assert.Equal(t, 1500*time.Millisecond, c.ResolveDelay())
	assert.Equal(t, 500*time.Millisecond, c.TossPassDelay())
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(map[string]string{
		EnvBotDelayMs:    "10",
		EnvSkillMax:      "0.9",
		EnvBotIdentities: "/tmp/bots.json",
		"UNRELATED":      "x",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, c.BotDelayMs)
	assert.Equal(t, 0.9, c.SkillMax)
	assert.Equal(t, "/tmp/bots.json", c.BotIdentitiesPath)
	assert.Equal(t, 1500, c.ResolveDelayMs, "untouched")
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "not a number", env: map[string]string{EnvTickRate: "fast"}},
		{name: "negative delay", env: map[string]string{EnvBotDelayMs: "-1"}},
		{name: "inverted skill", env: map[string]string{EnvSkillMin: "0.9", EnvSkillMax: "0.1"}},
		{name: "bad float", env: map[string]string{EnvSkillMin: "high"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			assert.Error(t, c.ApplyEnv(tt.env))
		})
	}
}

func TestLoadGameConfig(t *testing.T) {
	assert.Equal(t, Default(), GetGameConfig(), "defaults before loading")

	path := filepath.Join(t.TempDir(), "game_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bot_delay_ms": 200, "tick_rate": 5}`), 0o600))

	require.NoError(t, LoadGameConfig(path))
	c := GetGameConfig()
	assert.Equal(t, 200, c.BotDelayMs)
	assert.Equal(t, 5, c.TickRate)
	assert.Equal(t, 500, c.TossPassDelayMs, "missing fields keep defaults")

	require.NoError(t, LoadGameConfig("does-not-exist.json"), "only the first load reads")
}

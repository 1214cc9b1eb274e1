package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"durak/internal/bot"
	"durak/internal/config"
)

const gameConfigPath = "data/game_config.json"

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: using default game config: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if err := cfg.ApplyEnv(env); err != nil {
			return err
		}
	}
	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("InitModule: using default bot identities: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDurak, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(cfg), nil
	}); err != nil {
		return err
	}

	logger.Info("Durak Go module loaded (tick rate %d).", cfg.TickRate)
	return nil
}

package nakama

import (
	"context"
	"database/sql"

	"thirteen/internal/app"
	"thirteen/internal/bot"
	"thirteen/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	defaultConfigPath = "data/game_config.json"

	envConfigPath  = "thirteen_config_path"
	envVivoxIssuer = "vivox_issuer"
	envVivoxKey    = "vivox_key"
	envVivoxDomain = "vivox_domain"
)

// InitModule wires configuration, RPCs, hooks, and the match handler into
// the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	cfg := loadConfig(ctx, logger)
	roster := loadRoster(ctx, logger, nk, cfg)

	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	vivox := app.NewVivoxService(cfg.VivoxKey, cfg.VivoxIssuer, cfg.VivoxDomain)
	if err := initializer.RegisterRpc(RpcVivoxToken, rpcVivoxToken(vivox)); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(afterAuthenticateDevice(cfg)); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchName, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(cfg, roster), nil
	}); err != nil {
		return err
	}

	logger.Info("thirteen module loaded")
	return nil
}

// loadConfig reads the game config file, then lets runtime env vars override
// secrets so they stay out of the data folder.
func loadConfig(ctx context.Context, logger runtime.Logger) config.Game {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	path := defaultConfigPath
	if p, ok := env[envConfigPath]; ok && p != "" {
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("loadConfig: %v, continuing with defaults", err)
	}

	if v, ok := env[envVivoxIssuer]; ok && v != "" {
		cfg.VivoxIssuer = v
	}
	if v, ok := env[envVivoxKey]; ok && v != "" {
		cfg.VivoxKey = v
	}
	if v, ok := env[envVivoxDomain]; ok && v != "" {
		cfg.VivoxDomain = v
	}
	return cfg
}

// loadRoster reads the bot identity file and provisions accounts for
// identities that only carry a device ID, so bot seats settle against real
// wallets.
func loadRoster(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, cfg config.Game) *bot.Roster {
	if cfg.BotRosterPath == "" {
		return bot.NewRoster(nil)
	}
	roster, err := bot.LoadRoster(cfg.BotRosterPath)
	if err != nil {
		logger.Warn("loadRoster: %v, using synthetic bots", err)
		return bot.NewRoster(nil)
	}

	for i := 0; i < roster.Len(); i++ {
		identity := roster.At(i)
		if identity.UserID != "" || identity.DeviceID == "" {
			continue
		}
		userID, _, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Warn("loadRoster: provision bot %s: %v", identity.Username, err)
			continue
		}
		roster.SetUserID(i, userID)
	}
	return roster
}

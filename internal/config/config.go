// Package config loads the game's JSON configuration. Load returns a value;
// hosts decide where to keep it instead of reading package state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// BetTier is one stake level a lobby can be created at.
type BetTier struct {
	ID      string `json:"id"`
	BaseBet int64  `json:"base_bet"`
}

// Game is the full game configuration.
type Game struct {
	// TaxRate is the fraction withheld from positive settlement deltas.
	TaxRate     float64   `json:"tax_rate"`
	DefaultTier string    `json:"default_tier"`
	Tiers       []BetTier `json:"tiers"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotFillDelaySeconds is how long a solo human lobby waits before bots
	// top up the table.
	BotFillDelaySeconds int `json:"bot_fill_delay_seconds"`
	// BotMinThinkMillis and BotMaxThinkMillis bound the artificial delay
	// before a bot acts, so plays read as human pacing.
	BotMinThinkMillis int `json:"bot_min_think_millis"`
	BotMaxThinkMillis int `json:"bot_max_think_millis"`
	// BotRosterPath points at the bot identity file.
	BotRosterPath string `json:"bot_roster_path"`

	// WelcomeBonusAmount is granted once to fresh accounts.
	WelcomeBonusAmount int64 `json:"welcome_bonus_amount"`

	// Vivox voice credentials.
	VivoxIssuer string `json:"vivox_issuer"`
	VivoxKey    string `json:"vivox_key"`
	VivoxDomain string `json:"vivox_domain"`
}

const fallbackBaseBet = 100

// Default returns the configuration used when no file is provided.
func Default() Game {
	return Game{
		TaxRate:             0.05,
		DefaultTier:         "novice",
		Tiers:               []BetTier{{ID: "novice", BaseBet: fallbackBaseBet}},
		TurnDurationSeconds: 20,
		BotFillDelaySeconds: 5,
		BotMinThinkMillis:   800,
		BotMaxThinkMillis:   2500,
		WelcomeBonusAmount:  10000,
		VivoxDomain:         "mt1p.vivox.com",
	}
}

// Load reads a configuration file, filling omitted fields from Default.
func Load(path string) (Game, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read game config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse game config: %w", err)
	}
	return cfg, nil
}

// BaseBet resolves the stake for a tier ID, falling back to the default tier
// and then to a fixed floor.
func (g Game) BaseBet(tierID string) int64 {
	target := tierID
	if target == "" {
		target = g.DefaultTier
	}
	for _, tier := range g.Tiers {
		if tier.ID == target {
			return tier.BaseBet
		}
	}
	for _, tier := range g.Tiers {
		if tier.ID == g.DefaultTier {
			return tier.BaseBet
		}
	}
	return fallbackBaseBet
}

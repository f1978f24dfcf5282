package bot

import (
	"fmt"

	botinternal "thirteen/internal/bot/internal"
)

// Difficulty selects a strategy implementation.
type Difficulty string

const (
	DifficultyGood     Difficulty = "good"
	DifficultyStandard Difficulty = "standard"
	DifficultyGod      Difficulty = "god"
)

// ParseDifficulty maps a configuration string to a Difficulty, falling back
// to standard for anything unrecognized.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyGood, DifficultyStandard, DifficultyGod:
		return Difficulty(s)
	}
	return DifficultyStandard
}

// Config carries the tunings a Factory hands to its strategies. An explicit
// value, not package state, so matches can run different tunings side by
// side.
type Config struct {
	Standard botinternal.Tuning
	God      botinternal.Tuning
}

// DefaultConfig returns the shipped tunings.
func DefaultConfig() Config {
	return Config{Standard: StandardTuning, God: GodTuning}
}

// Factory builds strategies from its config.
type Factory struct {
	cfg Config
}

// NewFactory wraps a config.
func NewFactory(cfg Config) *Factory {
	return &Factory{cfg: cfg}
}

// New builds a strategy of the given difficulty for a seat.
func (f *Factory) New(d Difficulty, seat int) (Strategy, error) {
	switch d {
	case DifficultyGood:
		return NewGoodStrategy(), nil
	case DifficultyStandard:
		return NewStandardStrategy(f.cfg.Standard), nil
	case DifficultyGod:
		return NewGodStrategy(f.cfg.God, seat), nil
	default:
		return nil, fmt.Errorf("unknown bot difficulty: %q", d)
	}
}

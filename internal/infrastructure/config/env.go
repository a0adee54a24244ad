package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds process settings read from the environment.
// Command-line flags override these.
type EnvConfig struct {
	ConfigDir string `env:"PARALLELRUN_CONFIG_DIR"`
	Stage     string `env:"PARALLELRUN_STAGE" envDefault:"demo"`
	StatsDB   string `env:"PARALLELRUN_STATS_DB"`
	Mute      bool   `env:"PARALLELRUN_MUTE"`
	Watch     bool   `env:"PARALLELRUN_WATCH"`
	Record    bool   `env:"PARALLELRUN_RECORD" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses EnvConfig
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := ParseEnv(&cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

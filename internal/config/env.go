package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// EnvConfig overrides file settings from the environment. Precedence is
// flags > environment > file.
type EnvConfig struct {
	APIBaseURL        string `env:"GCPGURU_API_URL"`
	APITimeoutSeconds int    `env:"GCPGURU_API_TIMEOUT_SECONDS"`
	Theme             string `env:"GCPGURU_THEME"`
	LogLevel          string `env:"GCPGURU_LOG_LEVEL" envDefault:"warn"`
}

// LoadEnv parses the environment overrides.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath string `env:"DB_PATH" envDefault:"./dev.db"`
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
}

// Load reads the environment (after a best-effort .env load for local dev)
// and returns a populated Config.
func Load() (Config, error) {
	// We don't fail if the file is missing; production uses real env injection.
	_ = loadDotEnv(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the process runs in development mode, where
// migrations are applied automatically at startup.
func (c Config) IsDev() bool {
	return c.AppEnv != "production"
}

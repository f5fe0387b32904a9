// Package config loads the process configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// InsecureDefaultSecret is the fallback signing secret used when
// TOKEN_SECRET is unset. Running with it is a deployment risk, not a
// runtime error; startup logs a warning.
const InsecureDefaultSecret = "your-secret-key"

// Config holds all runtime settings, loaded once at startup.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	TokenSecret string `env:"TOKEN_SECRET" envDefault:"your-secret-key"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	// The .env file is optional; a missing one is not an error.
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// UsingDefaultSecret reports whether the insecure fallback secret is in use.
func (c Config) UsingDefaultSecret() bool {
	return c.TokenSecret == InsecureDefaultSecret
}

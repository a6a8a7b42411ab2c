package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

// Load reads configuration from the environment. A .env file is loaded
// first when present, so local development does not need exported vars.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// String masks the secret so the config can be logged at startup.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, TokenTTL: %s, JWTSecret: ***}", c.Port, c.TokenTTL)
}

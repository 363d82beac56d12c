package courier

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the environment-driven client defaults. [New] loads
// it before applying options, so a deployment can tune the client
// without code changes; explicit options win over the environment.
type Config struct {
	Parallel        int    `env:"COURIER_PARALLEL" envDefault:"50" validate:"gte=1"`
	UserAgent       string `env:"COURIER_USER_AGENT"`
	FollowRedirects bool   `env:"COURIER_FOLLOW_REDIRECTS" envDefault:"true"`
	MaxRedirects    int    `env:"COURIER_MAX_REDIRECTS" envDefault:"5" validate:"gte=1"`
}

// dotEnvOnce loads a .env file at most once per process; a missing
// file is fine.
var dotEnvOnce sync.Once

func configFromEnv() (Config, error) {
	dotEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid client configuration: %w", err)
	}

	return cfg, nil
}

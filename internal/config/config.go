package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	PushoverToken     string `env:"PUSHOVER_API_TOKEN,required=true"`
	PushoverUserKey   string `env:"PUSHOVER_USER_KEY,required=true"`
	PushoverDevice    string `env:"PUSHOVER_DEVICE"`
	PushoverAPIURL    string `env:"PUSHOVER_API_URL,default=https://api.pushover.net/1/messages.json"`
	RequestTimeoutSec int    `env:"REQUEST_TIMEOUT_SEC,default=10"`
	APIPort           int    `env:"API_PORT,default=8080"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.RequestTimeoutSec <= 0 {
		return nil, fmt.Errorf("failed to load config: REQUEST_TIMEOUT_SEC must be positive, got %d", cfg.RequestTimeoutSec)
	}
	return &cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

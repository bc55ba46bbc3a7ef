package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = 9999
	defaultSettleDelay = 10 * time.Second
)

type Config struct {
	// Port the HTTP/websocket listener binds to.
	Port int
	// SettleDelay is the grace period between the first round submission and
	// forced scoring. Zero disables forcing.
	SettleDelay time.Duration
}

// Load reads configuration from the environment, after a best-effort .env
// load. Unset or unparseable values fall back to defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        defaultPort,
		SettleDelay: defaultSettleDelay,
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}
	if v := os.Getenv("SETTLE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.SettleDelay = d
		}
	}
	return cfg
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server is the process configuration read from the environment.
type Server struct {
	Addr            string        `env:"BLACKJACK_ADDR" envDefault:":8080"`
	MaxBet          int64         `env:"BLACKJACK_MAX_BET" envDefault:"10000"`
	StartingBalance int64         `env:"BLACKJACK_STARTING_BALANCE" envDefault:"1000"`
	SessionMaxAge   time.Duration `env:"BLACKJACK_SESSION_MAX_AGE" envDefault:"24h"`
	JanitorInterval time.Duration `env:"BLACKJACK_JANITOR_INTERVAL" envDefault:"1h"`
	GesturePoll     time.Duration `env:"BLACKJACK_GESTURE_POLL" envDefault:"500ms"`
	AllowedOrigins  []string      `env:"BLACKJACK_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173,http://127.0.0.1:5173"`

	Ledger Ledger
	OTel   OTel
}

type Ledger struct {
	Mode         string `env:"LEDGER_MODE" envDefault:"memory"`
	DatabasePath string `env:"LEDGER_DATABASE_PATH"`
	DatabaseDSN  string `env:"LEDGER_DATABASE_DSN"`
	RecentLimit  int    `env:"LEDGER_RECENT_LIMIT" envDefault:"200"`
}

// OTel tracing is opt-in: nothing is exported unless Endpoint is set.
type OTel struct {
	Endpoint string `env:"BLACKJACK_OTEL_ENDPOINT"`
	Enabled  bool   `env:"BLACKJACK_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration.
func Load() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	cfg.Ledger.Mode = strings.ToLower(strings.TrimSpace(cfg.Ledger.Mode))
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	if c.MaxBet <= 0 {
		return fmt.Errorf("BLACKJACK_MAX_BET must be > 0")
	}
	if c.StartingBalance <= 0 {
		return fmt.Errorf("BLACKJACK_STARTING_BALANCE must be > 0")
	}
	if c.SessionMaxAge <= 0 || c.JanitorInterval <= 0 {
		return fmt.Errorf("session max age and janitor interval must be > 0")
	}
	if c.GesturePoll <= 0 {
		return fmt.Errorf("BLACKJACK_GESTURE_POLL must be > 0")
	}
	switch c.Ledger.Mode {
	case "memory", "sqlite", "local", "postgres":
	default:
		return fmt.Errorf("unknown LEDGER_MODE %q", c.Ledger.Mode)
	}
	return nil
}

// OTelActive reports whether traces should be exported.
func (c Server) OTelActive() bool {
	return c.OTel.Enabled && strings.TrimSpace(c.OTel.Endpoint) != ""
}

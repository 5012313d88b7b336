package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.MaxBet != 10000 || cfg.StartingBalance != 1000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionMaxAge != 24*time.Hour || cfg.JanitorInterval != time.Hour {
		t.Fatalf("unexpected janitor defaults: %v %v", cfg.SessionMaxAge, cfg.JanitorInterval)
	}
	if len(cfg.AllowedOrigins) != 3 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.Ledger.Mode != "memory" || cfg.Ledger.RecentLimit != 200 {
		t.Fatalf("unexpected ledger defaults: %+v", cfg.Ledger)
	}
	if cfg.OTelActive() {
		t.Fatal("tracing must be off without an endpoint")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BLACKJACK_ADDR", ":9090")
	t.Setenv("BLACKJACK_MAX_BET", "500")
	t.Setenv("BLACKJACK_SESSION_MAX_AGE", "30m")
	t.Setenv("BLACKJACK_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LEDGER_MODE", " SQLite ")
	t.Setenv("BLACKJACK_OTEL_ENDPOINT", "http://localhost:4318")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.MaxBet != 500 || cfg.SessionMaxAge != 30*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.Ledger.Mode != "sqlite" {
		t.Fatalf("ledger mode should be normalized, got %q", cfg.Ledger.Mode)
	}
	if !cfg.OTelActive() {
		t.Fatal("tracing should be active with an endpoint")
	}

	t.Setenv("BLACKJACK_OTEL_ENABLED", "false")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OTelActive() {
		t.Fatal("explicit disable must win over endpoint")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("BLACKJACK_MAX_BET", "not-an-int")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}

	t.Setenv("BLACKJACK_MAX_BET", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero max bet")
	}

	t.Setenv("BLACKJACK_MAX_BET", "100")
	t.Setenv("LEDGER_MODE", "redis")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown ledger mode")
	}
}

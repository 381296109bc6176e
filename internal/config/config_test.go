package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	cfg := Load()
	if cfg.PageSize != 100 {
		t.Fatalf("expected page size 100, got %d", cfg.PageSize)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected 1h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.TxMaxAttempts != 1 {
		t.Fatalf("expected 1 tx attempt, got %d", cfg.TxMaxAttempts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("TOKEN_TTL_MINUTES", "5")
	t.Setenv("PORT", "9000")
	cfg := Load()
	if cfg.PageSize != 25 || cfg.TokenTTL != 5*time.Minute || cfg.Port != "9000" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PAGE_SIZE", "lots")
	t.Setenv("MAX_PAGE_SIZE", "-4")
	cfg := Load()
	if cfg.PageSize != 100 || cfg.MaxPageSize != 1000 {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AppName != "headline-ledger" {
		t.Fatalf("unexpected app_name %q", cfg.AppName)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.HTTPTimeout)
	}
	if cfg.HTTPRetryCount != 0 {
		t.Fatalf("expected single-attempt default, got retry count %d", cfg.HTTPRetryCount)
	}
	if cfg.LedgerFormat != "ndjson" {
		t.Fatalf("unexpected ledger_format %q", cfg.LedgerFormat)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("unexpected default location %v", cfg.Location)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("LEDGER_FORMAT", "tsv")
	t.Setenv("TIMEZONE", "America/New_York")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.HTTPTimeout)
	}
	if cfg.LedgerFormat != "tsv" {
		t.Fatalf("unexpected ledger_format %q", cfg.LedgerFormat)
	}
	if cfg.Location == nil || cfg.Location.String() != "America/New_York" {
		t.Fatalf("unexpected location %v", cfg.Location)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LEDGER_FORMAT", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported ledger_format")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

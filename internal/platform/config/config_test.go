package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Addr == "" {
		t.Fatalf("expected default addr")
	}
	if cfg.MigrationsDir != "./migrations" {
		t.Fatalf("expected default migrations dir, got %q", cfg.MigrationsDir)
	}
}

func TestLoadOverride(t *testing.T) {
	t.Setenv("TALEWARD_ADDR", ":9999")
	t.Setenv("TALEWARD_ROLL_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.RollSeed != 42 {
		t.Fatalf("expected seed override, got %d", cfg.RollSeed)
	}
}

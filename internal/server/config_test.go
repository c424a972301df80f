package server

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deadmanstip.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8418 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadConfigParsesAndFillsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  port = 9000
}

game {
  pass_burn        = "5"
  max_idle_minutes = 10
}
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Address != "localhost" {
		t.Errorf("missing address not defaulted: %q", cfg.Server.Address)
	}
	if cfg.Game.PassBurn != "5" {
		t.Errorf("expected pass_burn 5, got %q", cfg.Game.PassBurn)
	}
	if cfg.Game.GritBonus == "" {
		t.Error("missing grit_bonus not defaulted")
	}
	if cfg.MaxIdle() != 10*time.Minute {
		t.Errorf("expected 10m max idle, got %s", cfg.MaxIdle())
	}
	if cfg.ListenAddr() != "localhost:9000" {
		t.Errorf("unexpected listen addr %q", cfg.ListenAddr())
	}
}

func TestLoadConfigMaxIdleOmittedVersusZero(t *testing.T) {
	t.Parallel()

	// Omitting the key keeps the default so reaping stays on.
	path := writeConfig(t, `
server {
  port = 9000
}

game {
  pass_burn = "5"
}
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIdle() != 30*time.Minute {
		t.Errorf("omitted max_idle_minutes: expected 30m, got %s", cfg.MaxIdle())
	}

	// An explicit zero means never reap.
	path = writeConfig(t, `
server {
  port = 9000
}

game {
  max_idle_minutes = 0
}
`)
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIdle() != 0 {
		t.Errorf("explicit zero max_idle_minutes: expected 0, got %s", cfg.MaxIdle())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("explicit zero failed validation: %v", err)
	}
}

func TestLoadConfigRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server { port = `)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"non-numeric pass_burn", func(c *Config) { c.Game.PassBurn = "a lot" }},
		{"zero pass_burn", func(c *Config) { c.Game.PassBurn = "0" }},
		{"negative grit_bonus", func(c *Config) { c.Game.GritBonus = "-1" }},
		{"fractional grit_bonus", func(c *Config) { c.Game.GritBonus = "1.5" }},
		{"negative max idle", func(c *Config) { n := -1; c.Game.MaxIdleMinutes = &n }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEngineConfigParsesWeiAmounts(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Game.PassBurn = "1000000000000000000000" // > int64
	cfg.Game.GritBonus = "7"

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	want, _ := new(big.Int).SetString("1000000000000000000000", 10)
	if engineCfg.PassBurn.Cmp(want) != 0 {
		t.Errorf("pass burn mismatch: %s", engineCfg.PassBurn)
	}
	if engineCfg.GritBonus.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("grit bonus mismatch: %s", engineCfg.GritBonus)
	}
}

package server

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/heyitsfei/deadmans-tip/internal/game"
)

// Config represents the complete gateway configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains the engine amounts. Amounts are decimal strings
// in wei because HCL integers cannot hold wei-scale values.
// MaxIdleMinutes is a pointer because zero is meaningful (never reap);
// an omitted key gets the default instead.
type GameSettings struct {
	PassBurn       string `hcl:"pass_burn,optional"`
	GritBonus      string `hcl:"grit_bonus,optional"`
	MaxIdleMinutes *int   `hcl:"max_idle_minutes,optional"`
}

const defaultMaxIdleMinutes = 30

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() *Config {
	maxIdle := defaultMaxIdleMinutes
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8418,
			LogLevel: "info",
		},
		Game: GameSettings{
			PassBurn:       "1000000000000000", // 0.001 ETH
			GritBonus:      "2000000000000000", // 0.002 ETH
			MaxIdleMinutes: &maxIdle,
		},
	}
}

// LoadConfig loads gateway configuration from an HCL file. A missing
// file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.PassBurn == "" {
		config.Game.PassBurn = defaults.Game.PassBurn
	}
	if config.Game.GritBonus == "" {
		config.Game.GritBonus = defaults.Game.GritBonus
	}
	if config.Game.MaxIdleMinutes == nil {
		config.Game.MaxIdleMinutes = defaults.Game.MaxIdleMinutes
	}

	return &config, nil
}

// Validate validates the gateway configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := parseAmount(c.Game.PassBurn); err != nil {
		return fmt.Errorf("pass_burn: %w", err)
	}
	if _, err := parseAmount(c.Game.GritBonus); err != nil {
		return fmt.Errorf("grit_bonus: %w", err)
	}
	if c.Game.MaxIdleMinutes != nil && *c.Game.MaxIdleMinutes < 0 {
		return fmt.Errorf("max_idle_minutes must not be negative: %d", *c.Game.MaxIdleMinutes)
	}
	return nil
}

// EngineConfig converts the configured amounts into an engine config.
// Validate must have passed first.
func (c *Config) EngineConfig() (game.Config, error) {
	passBurn, err := parseAmount(c.Game.PassBurn)
	if err != nil {
		return game.Config{}, fmt.Errorf("pass_burn: %w", err)
	}
	gritBonus, err := parseAmount(c.Game.GritBonus)
	if err != nil {
		return game.Config{}, fmt.Errorf("grit_bonus: %w", err)
	}
	return game.Config{PassBurn: passBurn, GritBonus: gritBonus}, nil
}

// ListenAddr returns the full listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// MaxIdle returns the idle-reap threshold. An explicit zero disables
// reaping; an omitted setting means the default.
func (c *Config) MaxIdle() time.Duration {
	if c.Game.MaxIdleMinutes == nil {
		return defaultMaxIdleMinutes * time.Minute
	}
	return time.Duration(*c.Game.MaxIdleMinutes) * time.Minute
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal integer: %q", s)
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("must be positive: %q", s)
	}
	return amount, nil
}

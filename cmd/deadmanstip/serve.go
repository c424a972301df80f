package main

import (
	"github.com/coder/quartz"

	"github.com/heyitsfei/deadmans-tip/cmd/deadmanstip/shared"
	"github.com/heyitsfei/deadmans-tip/internal/game"
	"github.com/heyitsfei/deadmans-tip/internal/randutil"
	"github.com/heyitsfei/deadmans-tip/internal/server"
)

// ServeCmd runs the WebSocket gateway the chat relay connects to.
type ServeCmd struct {
	Addr   string `kong:"help='Listen address (overrides config)'"`
	Config string `kong:"default='deadmanstip.hcl',help='Path to HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	JSON   bool   `kong:"name='json',help='Structured JSON logs instead of console output'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (demos only; production draws from crypto/rand)'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	if c.JSON {
		logger = shared.SetupStructuredLogger(c.Debug)
	}

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.ListenAddr()
	if c.Addr != "" {
		addr = c.Addr
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	var flipper game.Flipper = game.CryptoFlipper{}
	if c.Seed != nil {
		logger.Warn().Int64("seed", *c.Seed).Msg("using deterministic outcomes, do not run real games like this")
		flipper = game.NewSeededFlipper(randutil.New(*c.Seed))
	}

	registry := game.NewRegistry(quartz.NewReal())
	engine := game.NewEngine(registry, flipper, engineCfg, logger)
	dispatcher := server.NewDispatcher(engine, logger)
	srv := server.NewServer(addr, dispatcher, quartz.NewReal(), cfg.MaxIdle(), logger)

	logger.Info().
		Str("addr", addr).
		Str("pass_burn", cfg.Game.PassBurn).
		Str("grit_bonus", cfg.Game.GritBonus).
		Msg("starting gateway")

	ctx := shared.SetupSignalHandler(logger)
	return srv.Start(ctx)
}

package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the game gateway"`
	Simulate SimulateCmd      `cmd:"" help:"Play a seeded game locally and print the transcript"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("deadmanstip"),
		kong.Description("Deadman's Tip: channel-scoped elimination game over chat tips"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/charmbracelet/lipgloss"

	"github.com/heyitsfei/deadmans-tip/cmd/deadmanstip/shared"
	"github.com/heyitsfei/deadmans-tip/internal/game"
	"github.com/heyitsfei/deadmans-tip/internal/randutil"
)

// SimulateCmd runs one full game in-process with random decisions, for
// eyeballing engine behavior without a relay attached.
type SimulateCmd struct {
	Players   int    `kong:"default='4',help='Number of players'"`
	Seed      int64  `kong:"help='RNG seed (0 = time-derived)'"`
	Deposit   string `kong:"default='5000000000000000',help='Entry deposit per player in wei'"`
	PassBurn  string `kong:"default='1000000000000000',help='Wei burned per pass'"`
	GritBonus string `kong:"default='2000000000000000',help='Wei added per surviving shoot'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
}

var (
	bangStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	clickStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func (c *SimulateCmd) Run() error {
	if c.Players < 2 {
		return fmt.Errorf("need at least 2 players, got %d", c.Players)
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}
	logger := shared.SetupLogger(c.Debug)
	rng := randutil.New(seed)

	deposit, ok := new(big.Int).SetString(c.Deposit, 10)
	if !ok || deposit.Sign() <= 0 {
		return fmt.Errorf("deposit must be a positive decimal integer, got %q", c.Deposit)
	}
	passBurn, ok := new(big.Int).SetString(c.PassBurn, 10)
	if !ok || passBurn.Sign() <= 0 {
		return fmt.Errorf("pass-burn must be a positive decimal integer, got %q", c.PassBurn)
	}
	gritBonus, ok := new(big.Int).SetString(c.GritBonus, 10)
	if !ok || gritBonus.Sign() <= 0 {
		return fmt.Errorf("grit-bonus must be a positive decimal integer, got %q", c.GritBonus)
	}

	const channel = "simulation"
	engine := game.NewEngine(
		game.NewRegistry(nil),
		game.NewSeededFlipper(rng),
		game.Config{PassBurn: passBurn, GritBonus: gritBonus},
		logger,
	)

	fmt.Printf("seed %d, %d players, %s wei buy-in\n\n", seed, c.Players, deposit)

	for i := 1; i <= c.Players; i++ {
		name := fmt.Sprintf("player%d", i)
		addr := fmt.Sprintf("0x%040x", i)
		if _, err := engine.Deposit(channel, name, addr, deposit); err != nil {
			return err
		}
	}

	start, err := engine.Start(channel, "player1")
	if err != nil {
		return err
	}
	fmt.Printf("game starts, pot %s wei, %s first\n", start.Pot, start.FirstPlayer)

	for turn := 1; ; turn++ {
		status, err := engine.Status(channel)
		if err != nil {
			return err
		}
		actor := status.CurrentPlayer

		if rng.Uint64()&1 == 0 {
			res, err := engine.Pass(channel, actor)
			if errors.Is(err, game.ErrMustShoot) {
				// fall through to a shoot below
			} else if err != nil {
				return err
			} else {
				line := fmt.Sprintf("%3d  %s passes, burns %s, pot %s", turn, actor, res.Burned, res.Pot)
				if res.ForcedShoot {
					line += "  (rotation exhausted)"
				}
				fmt.Println(passStyle.Render(line))
				continue
			}
		}

		res, err := engine.Shoot(channel, actor)
		if err != nil {
			return err
		}
		switch {
		case res.GameOver:
			fmt.Println(bangStyle.Render(fmt.Sprintf("%3d  BANG! %s is out", turn, res.Eliminated)))
			fmt.Println()
			fmt.Println(winnerStyle.Render(fmt.Sprintf("%s wins the pot of %s wei after %d turns", res.Winner, res.Pot, turn)))
			return nil
		case res.Outcome == game.OutcomeBang:
			fmt.Println(bangStyle.Render(fmt.Sprintf("%3d  BANG! %s is out, %d remain", turn, res.Eliminated, res.AliveCount)))
		default:
			fmt.Println(clickStyle.Render(fmt.Sprintf("%3d  click, %s survives, pot %s", turn, res.Shooter, res.Pot)))
		}
	}
}

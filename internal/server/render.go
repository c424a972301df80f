package server

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/heyitsfei/deadmans-tip/internal/game"
)

// Rendering turns engine results into chat text. It runs after the
// engine transition has committed, so slow message delivery can never
// hold a channel lock.

const helpText = "Deadman's Tip: tip the bot in a channel to buy in - any amount joins, " +
	"all tips pool into the pot. `/dmt start` begins once 2+ players are in. On your turn " +
	"`/dmt shoot` risks a 50/50 elimination (surviving adds a grit bonus to the pot) or " +
	"`/dmt pass` skips your turn and burns a little of the pot. You can't pass once everyone " +
	"else has passed. Last one alive takes the pot."

const joinInfoText = "To join the next game, tip the bot any amount in this channel. " +
	"Your full tip goes into the pot and your payout address is remembered for the win."

func renderDeposit(res game.DepositResult) string {
	return fmt.Sprintf("%s is in! %d enrolled, pot is %s.", res.Identity, res.PlayerCount, wei(res.Pot))
}

func renderStart(res game.StartResult) string {
	return fmt.Sprintf("The game is on with %d players and %s in the pot. %s, you're up first - shoot or pass.",
		res.PlayerCount, wei(res.Pot), res.FirstPlayer)
}

func renderShoot(res game.ShootResult) (text, outcome string) {
	if res.Outcome == game.OutcomeClick {
		return fmt.Sprintf("CLICK. %s lives and the pot grows to %s. %s, you're up.",
			res.Shooter, wei(res.Pot), res.NextPlayer), string(game.OutcomeClick)
	}
	if res.GameOver {
		return fmt.Sprintf("BANG! %s is out. %s is the last one standing and takes the pot of %s!",
			res.Eliminated, res.Winner, wei(res.Pot)), "winner"
	}
	return fmt.Sprintf("BANG! %s is out, %d remain. %s, you're up.",
		res.Eliminated, res.AliveCount, res.NextPlayer), string(game.OutcomeBang)
}

func renderPass(res game.PassResult) string {
	text := fmt.Sprintf("%s passes and %s burns from the pot, leaving %s. %s, you're up.",
		res.Passer, wei(res.Burned), wei(res.Pot), res.NextPlayer)
	if res.ForcedShoot {
		text += fmt.Sprintf(" Everyone has passed - %s, the next move is a shoot.", res.NextPlayer)
	}
	return text
}

func renderStatus(res game.StatusResult) string {
	switch res.Status {
	case game.Waiting:
		return fmt.Sprintf("Waiting for players: %d enrolled (%s), pot is %s. `/dmt start` to begin.",
			res.TotalCount, strings.Join(res.Roster, ", "), wei(res.Pot))
	case game.Active:
		text := fmt.Sprintf("Game on: %d of %d alive, pot is %s. It's %s's turn.",
			res.AliveCount, res.TotalCount, wei(res.Pot), res.CurrentPlayer)
		if res.ForcedShoot {
			text += " They have to shoot."
		}
		return text
	default:
		return fmt.Sprintf("Game %s.", res.Status)
	}
}

// renderRejection maps the engine's error taxonomy to user-facing chat
// text. Every engine rejection has a rendering; anything unmatched is
// surfaced verbatim.
func renderRejection(err error) string {
	var wrongStatus *game.WrongStatusError
	var notEnough *game.NotEnoughPlayersError

	switch {
	case errors.Is(err, game.ErrNoGame):
		return "No game in progress. Tip the bot to start one."
	case errors.As(err, &wrongStatus):
		if wrongStatus.Status == game.Waiting {
			return "The game hasn't started yet. `/dmt start` to begin."
		}
		return fmt.Sprintf("Too late - the game is already %s.", wrongStatus.Status)
	case errors.As(err, &notEnough):
		return fmt.Sprintf("Need at least 2 players to start; only %d enrolled.", notEnough.Count)
	case errors.Is(err, game.ErrAlreadyJoined):
		return "You're already in this game."
	case errors.Is(err, game.ErrNotYourTurn):
		return "Not your turn."
	case errors.Is(err, game.ErrAlreadyEliminated):
		return "You're already out of this game."
	case errors.Is(err, game.ErrMustShoot):
		return "Everyone else has passed - you have to shoot."
	case errors.Is(err, game.ErrInvalidAmount):
		return "Deposits must be a positive amount."
	default:
		return err.Error()
	}
}

func wei(amount *big.Int) string {
	return amount.String() + " wei"
}

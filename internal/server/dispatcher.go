package server

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/heyitsfei/deadmans-tip/internal/game"
)

// Dispatcher routes inbound relay messages to engine transitions and
// engine results back to reply messages. It owns no game state; the
// engine's per-channel locking is the only serialization needed.
type Dispatcher struct {
	engine *game.Engine
	logger zerolog.Logger
}

// NewDispatcher creates a dispatcher for the engine.
func NewDispatcher(engine *game.Engine, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		engine: engine,
		logger: logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch handles one inbound message and returns the reply to send.
// Malformed input yields an error message, never a dropped connection.
func (d *Dispatcher) Dispatch(msg *Message) *Message {
	switch msg.Type {
	case MessageTypeDeposit:
		return d.handleDeposit(msg)
	case MessageTypeCommand:
		return d.handleCommand(msg)
	default:
		return d.errorReply(msg, "unknown_type", fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (d *Dispatcher) handleDeposit(msg *Message) *Message {
	var data DepositData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return d.errorReply(msg, "bad_payload", "malformed deposit payload")
	}
	amount, ok := new(big.Int).SetString(data.Amount, 10)
	if !ok {
		return d.errorReply(msg, "bad_amount", fmt.Sprintf("amount %q is not a decimal integer", data.Amount))
	}

	res, err := d.engine.Deposit(data.ChannelID, data.Sender, data.PayoutAddress, amount)
	if err != nil {
		return d.rejection(msg, data.ChannelID, err)
	}
	return d.replyText(msg, data.ChannelID, renderDeposit(res), "")
}

func (d *Dispatcher) handleCommand(msg *Message) *Message {
	var data CommandData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return d.errorReply(msg, "bad_payload", "malformed command payload")
	}

	switch data.Kind {
	case "help":
		return d.replyText(msg, data.ChannelID, helpText, "")
	case "join-info":
		return d.replyText(msg, data.ChannelID, joinInfoText, "")
	case "start":
		res, err := d.engine.Start(data.ChannelID, data.Actor)
		if err != nil {
			return d.rejection(msg, data.ChannelID, err)
		}
		return d.replyText(msg, data.ChannelID, renderStart(res), "")
	case "shoot":
		res, err := d.engine.Shoot(data.ChannelID, data.Actor)
		if err != nil {
			return d.rejection(msg, data.ChannelID, err)
		}
		text, outcome := renderShoot(res)
		return d.replyText(msg, data.ChannelID, text, outcome)
	case "pass":
		res, err := d.engine.Pass(data.ChannelID, data.Actor)
		if err != nil {
			return d.rejection(msg, data.ChannelID, err)
		}
		return d.replyText(msg, data.ChannelID, renderPass(res), "")
	case "status":
		res, err := d.engine.Status(data.ChannelID)
		if err != nil {
			return d.rejection(msg, data.ChannelID, err)
		}
		return d.replyText(msg, data.ChannelID, renderStatus(res), "")
	default:
		return d.errorReply(msg, "unknown_command", fmt.Sprintf("unknown command kind %q", data.Kind))
	}
}

func (d *Dispatcher) rejection(in *Message, channel string, err error) *Message {
	d.logger.Debug().Str("channel", channel).Err(err).Msg("transition rejected")
	return d.replyText(in, channel, renderRejection(err), "")
}

func (d *Dispatcher) replyText(in *Message, channel, text, outcome string) *Message {
	msg, err := NewMessage(MessageTypeReply, ReplyData{
		ChannelID: channel,
		Text:      text,
		Outcome:   outcome,
	})
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to build reply")
		return nil
	}
	msg.RequestID = in.RequestID
	return msg
}

func (d *Dispatcher) errorReply(in *Message, code, text string) *Message {
	d.logger.Warn().Str("code", code).Str("detail", text).Msg("rejecting inbound message")
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: text})
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to build error reply")
		return nil
	}
	msg.RequestID = in.RequestID
	return msg
}

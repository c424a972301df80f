package server

import (
	"encoding/json"
	"time"
)

// MessageType represents a WebSocket message type with type safety.
type MessageType string

// Message types exchanged with the chat relay.
const (
	// Relay to engine
	MessageTypeDeposit MessageType = "deposit"
	MessageTypeCommand MessageType = "command"

	// Engine to relay
	MessageTypeReply MessageType = "reply"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope for every WebSocket message.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Relay → Engine

// DepositData is a validated tip received by the relay. Amount is a
// decimal string in the smallest currency unit.
type DepositData struct {
	ChannelID     string `json:"channelId"`
	Sender        string `json:"sender"`
	PayoutAddress string `json:"payoutAddress"`
	Amount        string `json:"amount"`
}

// CommandData is a slash command invoked in a channel. Kind is one of
// join-info, start, shoot, pass, status, help.
type CommandData struct {
	Kind      string `json:"kind"`
	ChannelID string `json:"channelId"`
	Actor     string `json:"actor"`
}

// Engine → Relay

// ReplyData carries rendered chat text back to the relay. Outcome tags
// bang/click/winner replies so the relay can attach the matching image;
// the engine itself never renders visuals.
type ReplyData struct {
	ChannelID string `json:"channelId"`
	Text      string `json:"text"`
	Outcome   string `json:"outcome,omitempty"`
}

// ErrorData reports a malformed or undeliverable inbound message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package server

import (
	"encoding/json"
	"time"

	"github.com/dashkit/goldenflower/internal/game"
)

// Message types exchanged between client and gateway.
const (
	// Client to server
	MessageTypeHello  = "hello"
	MessageTypeStart  = "start"
	MessageTypeAction = "action"

	// Server to client
	MessageTypeWelcome = "welcome"
	MessageTypeState   = "state"
	MessageTypeEvent   = "event"
	MessageTypeError   = "error"
)

// Message is the envelope for all websocket traffic.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// HelloData identifies the connecting player. It must be the first
// message on a fresh connection.
type HelloData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// StartData asks the gateway to begin a new round.
type StartData struct {
	Players int `json:"players"`
}

// ActionData carries a player decision for the current turn.
type ActionData struct {
	Action string `json:"action"`
}

// WelcomeData acknowledges a hello.
type WelcomeData struct {
	PlayerID string `json:"playerId"`
	Ante     int    `json:"ante"`
	MaxBet   int    `json:"maxBet"`
}

// StateData wraps a table snapshot rendered for the receiving player.
type StateData struct {
	Snapshot game.Snapshot `json:"snapshot"`
}

// EventData carries one round event. Events arrive in apply order,
// before the state snapshot that reflects them.
type EventData struct {
	Event string      `json:"event"`
	Body  interface{} `json:"body"`
}

// ErrorData reports a rejected request. The connection stays open.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage creates a message with the given type and payload.
func NewMessage(msgType string, data interface{}) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		Timestamp: time.Now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return msg, nil
}

// ParseMessage decodes a raw websocket frame into a message envelope.
func ParseMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package deck

import (
	"encoding/json"
	"fmt"
)

// Message type for WebSocket communication between the viewer and the preview server.
type MessageType string

const (
	MsgTypeGenerate MessageType = "generate" // Client wants a new deck from a seed
	MsgTypeSummary  MessageType = "summary"  // Client asks for the current deck
	MsgTypeDeck     MessageType = "deck"     // Server sends the deck summary
	MsgTypeError    MessageType = "error"    // Server sends an error message
)

// WsMessage represents a WebSocket message.
type WsMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWsMessage creates a new WsMessage with a marshaled payload.
func NewWsMessage(msgType MessageType, payload interface{}) (WsMessage, error) {
	if payload == nil {
		return WsMessage{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return WsMessage{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return WsMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

// Parse unmarshals the message payload into one of the message types (GenerateMessage, DeckMessage, etc.)
func (m *WsMessage) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeGenerate:
		target = &GenerateMessage{}
	case MsgTypeSummary:
		target = &SummaryMessage{}
	case MsgTypeDeck:
		target = &DeckMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// GenerateMessage is the payload for MsgTypeGenerate
type GenerateMessage struct {
	Seed int64 `json:"seed"`
}

// SummaryMessage: empty.
type SummaryMessage struct{}

// DeckMessage is the payload for MsgTypeDeck
type DeckMessage struct {
	Summary Summary `json:"summary"`
}

// ErrorMessage is the payload for MsgTypeError
type ErrorMessage struct {
	Message string `json:"message"`
}

// Summary describes a generated deck without its artwork.
type Summary struct {
	Seed         int64    `json:"seed"`
	Participants int      `json:"participants"`
	Dropped      int      `json:"dropped"` // Participants removed to reach a multiple of 4
	Pages        int      `json:"pages"`
	Solution     Solution `json:"solution"`
}

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownMessageType is returned when a message's type field does not
// name a known message.
var ErrUnknownMessageType = errors.New("unknown message type")

// Marshal serializes a message to JSON.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// envelope probes just the type field so Decode can pick the concrete
// message to unmarshal into.
type envelope struct {
	Type MessageType `json:"type"`
}

// Decode parses an incoming message into its concrete type based on the
// type field.
func Decode(data []byte) (interface{}, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	var msg interface{}
	switch env.Type {
	case TypeJoin:
		msg = &Join{}
	case TypeAction:
		msg = &Action{}
	case TypeWelcome:
		msg = &Welcome{}
	case TypePlayerJoined:
		msg = &PlayerJoined{}
	case TypePlayerLeft:
		msg = &PlayerLeft{}
	case TypeHandStart:
		msg = &HandStart{}
	case TypeActionRequest:
		msg = &ActionRequest{}
	case TypePlayerAction:
		msg = &PlayerAction{}
	case TypeStreetChange:
		msg = &StreetChange{}
	case TypeHandResult:
		msg = &HandResult{}
	case TypeError:
		msg = &Error{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
	}
	return msg, nil
}

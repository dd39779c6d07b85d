package protocol

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is the only input protocol version this build speaks.
const Version = 1

// Message type constants.
const (
	MessageTypeTouch    = "touch"
	MessageTypeWheel    = "wheel"
	MessageTypeKeyboard = "keyboard"
	MessageTypeResize   = "resize"
)

// Pointer states carried by touch messages.
const (
	PointerStart = "start"
	PointerEnd   = "end"
	PointerMove  = "move"
	PointerNone  = "none"
)

// Keyboard states.
const (
	KeyPressed  = "pressed"
	KeyReleased = "released"
)

var (
	// ErrUnsupportedVersion is a hard failure of the offending message.
	ErrUnsupportedVersion = errors.New("unsupported protocol version")

	// ErrUnknownMessageType must be handled as a skip-and-log by the
	// receiving side so newer senders don't wedge an older receiver.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message represents all data channel input messages.
// Payloads are maps, never positional tuples, so either side may add
// fields without breaking the other.
type Message struct {
	Type    string             `msgpack:"type"`
	Version int                `msgpack:"version"`
	Data    msgpack.RawMessage `msgpack:"data"`
}

// TouchPointer is a single pointer sample inside a touch message.
type TouchPointer struct {
	ID    int     `msgpack:"id"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Z     float64 `msgpack:"z"`
	State string  `msgpack:"state"`
}

// TouchPayload carries an ordered sequence of pointer samples.
type TouchPayload struct {
	Pointers []TouchPointer `msgpack:"pointers"`
}

// WheelDelta is one scroll delta entry. The wire schema allows a
// sequence of these, but only index 0 is authoritative on the
// receiving side.
type WheelDelta struct {
	DX   float64 `msgpack:"dx"`
	DY   float64 `msgpack:"dy"`
	DZ   float64 `msgpack:"dz"`
	Mode int     `msgpack:"mode"`
}

// WheelPayload carries an ordered sequence of scroll deltas.
type WheelPayload struct {
	Pointers []WheelDelta `msgpack:"pointers"`
}

// KeyboardPayload is a single key transition.
type KeyboardPayload struct {
	Key   string `msgpack:"key"`
	State string `msgpack:"state"`
}

// ResizePayload asks the provider to match the consumer's rendering
// surface size.
type ResizePayload struct {
	Width  int `msgpack:"width"`
	Height int `msgpack:"height"`
}

// Encode builds a versioned wire message around the given payload.
func Encode(messageType string, payload any) ([]byte, error) {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", messageType, err)
	}

	return msgpack.Marshal(Message{
		Type:    messageType,
		Version: Version,
		Data:    data,
	})
}

// Decode parses a wire message and validates its envelope. The typed
// payload is decoded afterwards via DecodePayload. A version mismatch
// fails hard; an unknown type returns the message alongside
// ErrUnknownMessageType so the caller can log and skip it.
func Decode(raw []byte) (*Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}

	if msg.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, msg.Version, Version)
	}

	switch msg.Type {
	case MessageTypeTouch, MessageTypeWheel, MessageTypeKeyboard, MessageTypeResize:
		return &msg, nil
	default:
		return &msg, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}

// DecodePayload decodes the message payload into the provided struct
func (m *Message) DecodePayload(v any) error {
	return msgpack.Unmarshal(m.Data, v)
}

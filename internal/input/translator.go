// Package input maps decoded protocol messages onto platform-native
// input primitives and applies them to a designated target surface. It
// performs protocol-to-native translation only and never touches any
// transport.
package input

import (
	"fmt"

	"github.com/panecast/panecast/internal/protocol"
)

// Translator converts decoded input messages into native actions for
// one target surface.
type Translator struct {
	surface Surface
}

// NewTranslator creates a translator writing to the given surface.
func NewTranslator(surface Surface) *Translator {
	return &Translator{surface: surface}
}

// Translate maps one decoded message to zero or more native actions.
func Translate(msg *protocol.Message) ([]Action, error) {
	switch msg.Type {
	case protocol.MessageTypeTouch:
		var payload protocol.TouchPayload
		if err := msg.DecodePayload(&payload); err != nil {
			return nil, fmt.Errorf("decode touch payload: %w", err)
		}
		return translateTouch(payload), nil

	case protocol.MessageTypeWheel:
		var payload protocol.WheelPayload
		if err := msg.DecodePayload(&payload); err != nil {
			return nil, fmt.Errorf("decode wheel payload: %w", err)
		}
		return translateWheel(payload), nil

	case protocol.MessageTypeKeyboard:
		var payload protocol.KeyboardPayload
		if err := msg.DecodePayload(&payload); err != nil {
			return nil, fmt.Errorf("decode keyboard payload: %w", err)
		}
		if action, ok := ClassifyKey(payload.Key, payload.State); ok {
			return []Action{action}, nil
		}
		return nil, nil

	case protocol.MessageTypeResize:
		var payload protocol.ResizePayload
		if err := msg.DecodePayload(&payload); err != nil {
			return nil, fmt.Errorf("decode resize payload: %w", err)
		}
		return []Action{{Kind: KindResize, Width: payload.Width, Height: payload.Height}}, nil

	default:
		return nil, fmt.Errorf("%w: %q", protocol.ErrUnknownMessageType, msg.Type)
	}
}

// Apply translates a message and writes every resulting action to the
// surface, in order. Translation is synchronous: the message is fully
// applied before the caller reads the next one off the data channel.
func (t *Translator) Apply(msg *protocol.Message) error {
	actions, err := Translate(msg)
	if err != nil {
		return err
	}

	for _, action := range actions {
		if err := t.surface.Apply(action); err != nil {
			return fmt.Errorf("apply %s: %w", action.Kind, err)
		}
	}
	return nil
}

func translateTouch(payload protocol.TouchPayload) []Action {
	actions := make([]Action, 0, len(payload.Pointers))
	for _, p := range payload.Pointers {
		switch p.State {
		case protocol.PointerStart:
			actions = append(actions, Action{Kind: KindPointerPress, X: p.X, Y: p.Y})
		case protocol.PointerEnd:
			actions = append(actions, Action{Kind: KindPointerRelease, X: p.X, Y: p.Y})
		case protocol.PointerMove:
			actions = append(actions, Action{Kind: KindPointerDrag, X: p.X, Y: p.Y})
		case protocol.PointerNone:
			// Filtered out, not an error.
		}
	}
	return actions
}

func translateWheel(payload protocol.WheelPayload) []Action {
	if len(payload.Pointers) == 0 {
		return nil
	}

	// Only the first delta is authoritative; trailing entries are
	// preserved on the wire but never consumed.
	first := payload.Pointers[0]
	return []Action{{Kind: KindWheel, DX: first.DX, DY: first.DY}}
}

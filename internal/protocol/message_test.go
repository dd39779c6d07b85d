package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		messageType string
		payload     any
		decoded     any
	}{
		{
			name:        "touch",
			messageType: MessageTypeTouch,
			payload: TouchPayload{Pointers: []TouchPointer{
				{ID: 1, X: 10, Y: 20, Z: 0.5, State: PointerStart},
				{ID: 2, X: 11, Y: 21, State: PointerMove},
			}},
			decoded: &TouchPayload{},
		},
		{
			name:        "wheel",
			messageType: MessageTypeWheel,
			payload: WheelPayload{Pointers: []WheelDelta{
				{DX: -3, DY: 120, Mode: 1},
				{DX: 0, DY: 1},
			}},
			decoded: &WheelPayload{},
		},
		{
			name:        "keyboard",
			messageType: MessageTypeKeyboard,
			payload:     KeyboardPayload{Key: "ArrowUp", State: KeyPressed},
			decoded:     &KeyboardPayload{},
		},
		{
			name:        "resize",
			messageType: MessageTypeResize,
			payload:     ResizePayload{Width: 1280, Height: 720},
			decoded:     &ResizePayload{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.messageType, tt.payload)
			require.NoError(t, err)

			msg, err := Decode(raw)
			require.NoError(t, err)
			require.Equal(t, tt.messageType, msg.Type)
			require.Equal(t, Version, msg.Version)

			require.NoError(t, msg.DecodePayload(tt.decoded))

			switch want := tt.payload.(type) {
			case TouchPayload:
				require.Equal(t, &want, tt.decoded)
			case WheelPayload:
				require.Equal(t, &want, tt.decoded)
			case KeyboardPayload:
				require.Equal(t, &want, tt.decoded)
			case ResizePayload:
				require.Equal(t, &want, tt.decoded)
			}
		})
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	raw, err := msgpack.Marshal(Message{Type: MessageTypeWheel, Version: 2})
	require.NoError(t, err)

	_, err = Decode(raw)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeFlagsUnknownType(t *testing.T) {
	raw, err := msgpack.Marshal(Message{Type: "gamepad", Version: Version})
	require.NoError(t, err)

	msg, err := Decode(raw)
	require.ErrorIs(t, err, ErrUnknownMessageType)
	// The envelope is still returned so the consumer can log and skip.
	require.NotNil(t, msg)
	require.Equal(t, "gamepad", msg.Type)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0xc1, 0xff, 0x00})
	require.Error(t, err)
}

// Receivers must treat payloads as mappings: decoding a payload
// carrying extra unknown fields still works.
func TestDecodeToleratesUnknownFields(t *testing.T) {
	raw, err := Encode(MessageTypeKeyboard, map[string]any{
		"key":      "a",
		"state":    KeyPressed,
		"pressure": 0.7,
	})
	require.NoError(t, err)

	msg, err := Decode(raw)
	require.NoError(t, err)

	var payload KeyboardPayload
	require.NoError(t, msg.DecodePayload(&payload))
	require.Equal(t, "a", payload.Key)
	require.Equal(t, KeyPressed, payload.State)
}

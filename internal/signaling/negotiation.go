package signaling

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pion/webrtc/v4"
)

// ErrBadNegotiation is returned for payloads that are neither a session
// description nor a candidate in either known shape.
var ErrBadNegotiation = errors.New("unrecognized negotiation payload")

// Description is a session description (offer or answer) on the wire.
type Description struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

// CandidateShape identifies which of the two candidate wire shapes a
// payload uses. The two peer-connection implementations at the ends of
// a session emit different shapes, so both must be accepted and either
// must be producible.
type CandidateShape int

const (
	// ShapeNone: the payload has no candidate key at all (it is a
	// session description).
	ShapeNone CandidateShape = iota

	// ShapeBare: candidate fields at top level
	// {"candidate":"...","sdpMLineIndex":0,"sdpMid":"0"}.
	ShapeBare

	// ShapeWrapped: the bare fields nested under a candidate key
	// {"candidate":{"candidate":"...","sdpMLineIndex":0,...}}.
	ShapeWrapped
)

// Negotiation is one parsed negotiation message: exactly one of Desc
// and Candidate is set.
type Negotiation struct {
	Desc      *Description
	Candidate *webrtc.ICECandidateInit
	Shape     CandidateShape
}

type wrappedCandidate struct {
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

// DetectShape classifies a raw payload by its discriminator: presence
// of a "candidate" key, and whether its value is an object or a string.
// There is no version tag on this protocol.
func DetectShape(payload []byte) CandidateShape {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ShapeNone
	}

	raw, ok := fields["candidate"]
	if !ok || len(raw) == 0 {
		return ShapeNone
	}

	if raw[0] == '{' {
		return ShapeWrapped
	}
	return ShapeBare
}

// ParseNegotiation normalizes an inbound payload of either shape into
// the form the local peer connection expects.
func ParseNegotiation(payload string) (*Negotiation, error) {
	raw := []byte(payload)

	switch shape := DetectShape(raw); shape {
	case ShapeBare:
		var init webrtc.ICECandidateInit
		if err := json.Unmarshal(raw, &init); err != nil {
			return nil, fmt.Errorf("parse bare candidate: %w", err)
		}
		return &Negotiation{Candidate: &init, Shape: shape}, nil

	case ShapeWrapped:
		var wrapped wrappedCandidate
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("parse wrapped candidate: %w", err)
		}
		return &Negotiation{Candidate: &wrapped.Candidate, Shape: shape}, nil

	default:
		var desc Description
		if err := json.Unmarshal(raw, &desc); err != nil || desc.SDP == "" {
			return nil, fmt.Errorf("%w: %.64s", ErrBadNegotiation, payload)
		}
		return &Negotiation{Desc: &desc, Shape: ShapeNone}, nil
	}
}

// MarshalCandidate performs the inverse transform: it serializes a
// local candidate into the shape the remote peer expects.
func MarshalCandidate(init webrtc.ICECandidateInit, shape CandidateShape) (string, error) {
	var v any
	switch shape {
	case ShapeWrapped:
		v = wrappedCandidate{Candidate: init}
	case ShapeBare:
		v = init
	default:
		return "", fmt.Errorf("cannot marshal candidate as shape %d", shape)
	}

	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal candidate: %w", err)
	}
	return string(out), nil
}

// MarshalDescription serializes a session description for the channel.
func MarshalDescription(desc *webrtc.SessionDescription) (string, error) {
	out, err := json.Marshal(Description{Type: desc.Type.String(), SDP: desc.SDP})
	if err != nil {
		return "", fmt.Errorf("marshal description: %w", err)
	}
	return string(out), nil
}

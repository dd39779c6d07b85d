package signaling

import "errors"

// ErrUnavailable is returned when the rendezvous endpoint cannot be
// reached. It is non-fatal: callers log it and retry on their own
// schedule.
var ErrUnavailable = errors.New("signaling transport unavailable")

// Participant is one identity known to the rendezvous server.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// PeerMessage is an opaque payload relayed between two participants.
type PeerMessage struct {
	From    string `json:"from"`
	Payload string `json:"payload"`
}

// SignInRequest registers a participant under a caller-chosen name.
type SignInRequest struct {
	Name string `json:"name"`
}

// SignInResponse carries the assigned id and the current roster,
// including the caller itself.
type SignInResponse struct {
	ID    string        `json:"id"`
	Peers []Participant `json:"peers"`
}

// PollResponse is one poll round: the full roster plus all messages
// queued for the caller since the previous poll, in arrival order.
type PollResponse struct {
	Peers    []Participant `json:"peers"`
	Messages []PeerMessage `json:"messages"`
}

// ErrorResponse represents error messages from the server.
type ErrorResponse struct {
	Error string `json:"error"`
}

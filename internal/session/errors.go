package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRemoteFound means the roster held no eligible remote
	// participant. Fatal to the attempt and surfaced to the operator:
	// a human must add a peer.
	ErrNoRemoteFound = errors.New("no remote participant found")

	// ErrSessionTornDown drives the Streaming -> Disconnected
	// transition; it is always recovered by restarting sign-in.
	ErrSessionTornDown = errors.New("session torn down")

	ErrChannelNotOpen = errors.New("data channel not open")
	ErrNoCaptureTrack = errors.New("no capture track available")
)

// SessionError wraps an error with the operation it occurred in.
type SessionError struct {
	Op      string
	Err     error
	Details string
}

func (e *SessionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func NewError(op string, err error) *SessionError {
	return &SessionError{Op: op, Err: err}
}

func WrapError(op string, err error, details string) *SessionError {
	return &SessionError{Op: op, Err: err, Details: details}
}

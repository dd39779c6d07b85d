package session

import (
	"context"
	"sync"
	"time"

	"github.com/panecast/panecast/internal/signaling"
	"github.com/pion/webrtc/v4"
)

// Attempt is the state of one sign-in/negotiate/stream cycle. A new
// Attempt is created per cycle; the peer session object itself (the
// Machine) survives across reconnects.
type Attempt struct {
	Generation int
	LocalName  string
	LocalID    string
	Remote     string
	Roster     []signaling.Participant

	Client  *signaling.Client
	Handler *signaling.Handler

	PC *webrtc.PeerConnection

	// mu guards dataChannel, which the provider assigns from pion's
	// OnDataChannel callback goroutine while teardown may be reading it.
	mu          sync.Mutex
	dataChannel *webrtc.DataChannel

	// pending buffers negotiation messages consumed ahead of the
	// negotiation loop (the provider's first inbound message doubles
	// as remote discovery).
	pending []signaling.PeerMessage

	disconnected chan struct{}
	discOnce     sync.Once
}

func newAttempt(generation int, name string) *Attempt {
	return &Attempt{
		Generation:   generation,
		LocalName:    name,
		disconnected: make(chan struct{}),
	}
}

// MarkDisconnected records session teardown. Safe to call from any
// peer-connection callback, any number of times.
func (a *Attempt) MarkDisconnected() {
	a.discOnce.Do(func() {
		close(a.disconnected)
	})
}

// Disconnected is closed once the media session is torn down.
func (a *Attempt) Disconnected() <-chan struct{} {
	return a.disconnected
}

// SetDataChannel records the attempt's input channel.
func (a *Attempt) SetDataChannel(dc *webrtc.DataChannel) {
	a.mu.Lock()
	a.dataChannel = dc
	a.mu.Unlock()
}

// DataChannel returns the input channel, nil until one is attached.
func (a *Attempt) DataChannel() *webrtc.DataChannel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dataChannel
}

// PushPending re-queues a message so it is consumed before anything
// newly arrived.
func (a *Attempt) PushPending(msg signaling.PeerMessage) {
	a.pending = append(a.pending, msg)
}

// PopPending takes the oldest re-queued message, if any.
func (a *Attempt) PopPending() (signaling.PeerMessage, bool) {
	if len(a.pending) == 0 {
		return signaling.PeerMessage{}, false
	}
	msg := a.pending[0]
	a.pending = a.pending[1:]
	return msg, true
}

// NextMessage returns the next inbound peer message in arrival order,
// pending buffer first. It fails when the session disconnects or the
// context ends.
func (a *Attempt) NextMessage(ctx context.Context) (signaling.PeerMessage, error) {
	if msg, ok := a.PopPending(); ok {
		return msg, nil
	}

	select {
	case msg, ok := <-a.Handler.Message:
		if !ok {
			return signaling.PeerMessage{}, ErrSessionTornDown
		}
		return msg, nil
	case <-a.disconnected:
		return signaling.PeerMessage{}, ErrSessionTornDown
	case <-ctx.Done():
		return signaling.PeerMessage{}, ctx.Err()
	}
}

// Close releases everything tied to this attempt: the peer connection,
// its data channel, and the signaling registration. Media resources
// must be gone before the next attempt signs in.
func (a *Attempt) Close() {
	a.MarkDisconnected()

	if dc := a.DataChannel(); dc != nil {
		_ = dc.Close()
	}
	if a.PC != nil {
		_ = a.PC.Close()
	}
	if a.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = a.Client.SignOut(ctx)
		cancel()
		a.Client.Close()
	}
	if a.Handler != nil {
		a.Handler.Close()
	}
}

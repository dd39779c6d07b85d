package session

import (
	"log/slog"

	"github.com/pion/webrtc/v4"
)

// HeadlessRenderer is a Renderer without a window: it drains the
// inbound media so the stream keeps flowing and emits whatever local
// events are pushed into it. The real rendering surface lives in the
// windowing runtime; this one backs headless runs and tests.
type HeadlessRenderer struct {
	events chan LocalEvent
	done   chan struct{}
}

// NewHeadlessRenderer creates a window-less rendering surface.
func NewHeadlessRenderer() *HeadlessRenderer {
	return &HeadlessRenderer{
		events: make(chan LocalEvent, 32),
		done:   make(chan struct{}),
	}
}

// Attach drains RTP from the inbound track. Frames are counted, not
// decoded.
func (r *HeadlessRenderer) Attach(track *webrtc.TrackRemote) {
	go func() {
		packets := 0
		for {
			select {
			case <-r.done:
				return
			default:
			}

			if _, _, err := track.ReadRTP(); err != nil {
				slog.Debug("inbound track ended", "packets", packets, "err", err)
				return
			}
			packets++
		}
	}()
}

// Events returns the local input occurrence channel.
func (r *HeadlessRenderer) Events() <-chan LocalEvent {
	return r.events
}

// Push injects a local input occurrence, e.g. from a test or an
// attached control program.
func (r *HeadlessRenderer) Push(ev LocalEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

func (r *HeadlessRenderer) Close() error {
	close(r.done)
	return nil
}

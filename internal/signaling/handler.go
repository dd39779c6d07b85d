package signaling

import "sync"

// Handler routes poll rounds from the client onto typed channels: peer
// messages in arrival order, roster joins and leaves from diffing
// successive rosters, and transport errors. Errors are advisory; the
// consumer decides whether any of them is fatal.
//
// Start owns the outbound channels: it is the only goroutine that sends
// on them and the only one that closes them, once the client's incoming
// channel is exhausted or Close is signalled. Close never touches the
// channels itself, so a teardown racing an in-flight delivery is safe.
type Handler struct {
	client     *Client
	PeerJoined chan Participant
	PeerLeft   chan string
	Message    chan PeerMessage
	Errors     chan error
	known      map[string]Participant
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHandler creates a new poll-round handler.
func NewHandler(client *Client) *Handler {
	return &Handler{
		client:     client,
		PeerJoined: make(chan Participant, 8),
		PeerLeft:   make(chan string, 8),
		Message:    make(chan PeerMessage, 64),
		Errors:     make(chan error, 4),
		known:      make(map[string]Participant),
		done:       make(chan struct{}),
	}
}

// Seed records the roster returned by sign-in so those participants are
// not re-reported as joins on the first poll.
func (h *Handler) Seed(roster []Participant) {
	for _, p := range roster {
		h.known[p.ID] = p
	}
}

// Start consumes poll rounds until the client closes its channel or
// Close is called, then closes every outbound channel.
func (h *Handler) Start() {
	defer func() {
		close(h.PeerJoined)
		close(h.PeerLeft)
		close(h.Message)
		close(h.Errors)
	}()

	for res := range h.client.Incoming() {
		select {
		case <-h.done:
			return
		default:
		}

		if res.Err != nil {
			// Transport-level failure: surfaced, never terminal here.
			select {
			case h.Errors <- res.Err:
			default:
			}
			continue
		}

		h.diffRoster(res.Response.Peers)

		for _, msg := range res.Response.Messages {
			select {
			case h.Message <- msg:
			case <-h.done:
				return
			}
		}
	}
}

// diffRoster compares the fetched roster against the last known one and
// emits joins and leaves.
func (h *Handler) diffRoster(roster []Participant) {
	current := make(map[string]Participant, len(roster))

	for _, p := range roster {
		current[p.ID] = p
		if _, ok := h.known[p.ID]; !ok && p.ID != h.client.ID() {
			select {
			case h.PeerJoined <- p:
			default:
			}
		}
	}

	for id := range h.known {
		if _, ok := current[id]; !ok {
			select {
			case h.PeerLeft <- id:
			default:
			}
		}
	}

	h.known = current
}

// Close asks Start to stop delivering. Idempotent, and safe while a
// delivery is in flight; the channels are closed by Start on its way
// out.
func (h *Handler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

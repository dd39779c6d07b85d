// Package session owns the peer-connection lifecycle: signing in to the
// rendezvous channel, discovering a remote, negotiating a media+data
// session, streaming, and recovering from teardown. The consumer and
// provider roles specialize the cycle; everything else is shared.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/panecast/panecast/internal/config"
	"github.com/panecast/panecast/internal/signaling"
)

// State is one phase of the session lifecycle.
type State int

const (
	StateIdle State = iota
	StateSigningIn
	StateAwaitingRemote
	StateNegotiating
	StateStreaming
	StateDisconnected
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateSigningIn:      "signing-in",
	StateAwaitingRemote: "awaiting-remote",
	StateNegotiating:    "negotiating",
	StateStreaming:      "streaming",
	StateDisconnected:   "disconnected",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EventKind is the fixed enumeration of session notifications.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventRemoteFound
	EventStreamStarted
	EventDisconnected
	EventError
)

// Event is one session notification.
type Event struct {
	Kind      EventKind
	State     State
	LocalName string
	RemoteID  string
	Err       error
}

// Role specializes the state machine: the consumer initiates and
// renders, the provider answers and replays input.
type Role interface {
	Name() string

	// AwaitRemote blocks until a remote participant id is known for
	// this attempt: the consumer scans the roster, the provider waits
	// for the first inbound negotiation message.
	AwaitRemote(ctx context.Context, att *Attempt) (string, error)

	// Negotiate drives description and candidate exchange until the
	// peer connection reports connected.
	Negotiate(ctx context.Context, att *Attempt) error

	// Stream runs the steady state and returns once the session is
	// torn down.
	Stream(ctx context.Context, att *Attempt) error
}

// Machine runs one peer session. Its identity survives reconnects; the
// per-cycle state lives in Attempts that are replaced, never
// accumulated. All session state mutation happens inside Run.
type Machine struct {
	cfg        *config.Config
	role       Role
	backoff    *Backoff
	events     chan Event
	state      State
	generation int

	// newClient is swappable in tests.
	newClient func() *signaling.Client
}

// NewMachine creates a session machine for the given role.
func NewMachine(cfg *config.Config, role Role) *Machine {
	m := &Machine{
		cfg:     cfg,
		role:    role,
		backoff: NewBackoff(config.MinRetryDelay, config.MaxRetryDelay),
		events:  make(chan Event, 32),
		state:   StateIdle,
	}
	m.newClient = func() *signaling.Client {
		return signaling.NewClient(cfg.RendezvousURL, cfg.PollInterval)
	}
	return m
}

// Events returns the notification channel. Slow listeners lose events
// rather than stalling the session.
func (m *Machine) Events() <-chan Event {
	return m.events
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Run drives the session until the context ends or a fatal error
// surfaces. Disconnects restart the cycle with backoff; failing to find
// any remote participant is fatal and returned to the operator.
func (m *Machine) Run(ctx context.Context) error {
	for {
		err := m.attempt(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrNoRemoteFound) {
			return err
		}

		if err != nil && !errors.Is(err, ErrSessionTornDown) {
			slog.Warn("session attempt failed", "role", m.role.Name(), "err", err)
			m.emit(Event{Kind: EventError, State: m.state, Err: err})
		}

		m.setState(StateDisconnected)
		m.emit(Event{Kind: EventDisconnected, State: StateDisconnected, Err: err})

		delay := m.backoff.Next()
		slog.Info("restarting session", "role", m.role.Name(), "delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// attempt runs one full cycle. Every resource it acquires is released
// before it returns, so the next cycle starts clean.
func (m *Machine) attempt(ctx context.Context) error {
	m.generation++
	att := newAttempt(m.generation, m.attemptName())
	defer att.Close()

	m.setState(StateSigningIn)
	m.emit(Event{Kind: EventStateChanged, State: StateSigningIn, LocalName: att.LocalName})

	att.Client = m.newClient()
	id, roster, err := att.Client.SignIn(ctx, att.LocalName)
	if err != nil {
		return WrapError("sign in", err, att.LocalName)
	}
	att.LocalID = id
	att.Roster = roster

	att.Handler = signaling.NewHandler(att.Client)
	att.Handler.Seed(roster)
	att.Client.Start()
	go att.Handler.Start()
	go m.logTransportErrors(att)

	m.setState(StateAwaitingRemote)
	m.emit(Event{Kind: EventStateChanged, State: StateAwaitingRemote})

	remote, err := m.role.AwaitRemote(ctx, att)
	if err != nil {
		return err
	}
	att.Remote = remote
	m.emit(Event{Kind: EventRemoteFound, State: StateAwaitingRemote, RemoteID: remote})

	m.setState(StateNegotiating)
	m.emit(Event{Kind: EventStateChanged, State: StateNegotiating, RemoteID: remote})

	if err := m.role.Negotiate(ctx, att); err != nil {
		return err
	}

	m.setState(StateStreaming)
	m.emit(Event{Kind: EventStreamStarted, State: StateStreaming, RemoteID: remote})
	m.backoff.Reset()

	return m.role.Stream(ctx, att)
}

// attemptName builds a participant name that is unique per sign-in, so
// stale roster entries from a crashed run never alias the new one.
func (m *Machine) attemptName() string {
	return fmt.Sprintf("%s-%s-%s", m.cfg.NameBase, m.role.Name(), uuid.NewString()[:8])
}

// logTransportErrors drains signaling transport errors for the
// attempt's lifetime. They are advisory, never terminal.
func (m *Machine) logTransportErrors(att *Attempt) {
	for {
		select {
		case err, ok := <-att.Handler.Errors:
			if !ok {
				return
			}
			slog.Warn("signaling transport error", "role", m.role.Name(), "err", err)
		case <-att.Disconnected():
			return
		}
	}
}

func (m *Machine) setState(s State) {
	m.state = s
}

func (m *Machine) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

package session

import (
	"context"
	"log/slog"

	"github.com/panecast/panecast/internal/config"
	"github.com/panecast/panecast/internal/protocol"
	"github.com/panecast/panecast/internal/signaling"
	"github.com/pion/webrtc/v4"
)

// LocalEvent is one locally observed input occurrence on the rendering
// surface, ready to be encoded and forwarded to the provider.
type LocalEvent struct {
	Type string
	Data any
}

// Renderer is the consumer's rendering surface: it plays the inbound
// media stream and is the source of local input occurrences.
type Renderer interface {
	Attach(track *webrtc.TrackRemote)
	Events() <-chan LocalEvent
	Close() error
}

// Consumer initiates sessions: it discovers a provider on the roster,
// sends the offer, renders the inbound stream, and forwards every local
// input occurrence over the data channel.
type Consumer struct {
	cfg        *config.Config
	iceServers []webrtc.ICEServer
	renderer   Renderer
}

// NewConsumer creates the consumer role.
func NewConsumer(cfg *config.Config, iceServers []webrtc.ICEServer, renderer Renderer) *Consumer {
	return &Consumer{cfg: cfg, iceServers: iceServers, renderer: renderer}
}

func (c *Consumer) Name() string { return "consumer" }

// AwaitRemote scans the sign-in roster for a provider. The consumer
// does not wait for peers to appear: an empty roster is surfaced to the
// operator.
func (c *Consumer) AwaitRemote(_ context.Context, att *Attempt) (string, error) {
	return SelectRemote(att.Roster, att.LocalID)
}

// SelectRemote picks the first connected participant that is not self.
func SelectRemote(roster []signaling.Participant, selfID string) (string, error) {
	for _, p := range roster {
		if p.ID != selfID && p.Connected {
			return p.ID, nil
		}
	}
	return "", ErrNoRemoteFound
}

// Negotiate sends the offer and pumps negotiation messages, in arrival
// order, until the peer connection is up.
func (c *Consumer) Negotiate(ctx context.Context, att *Attempt) error {
	pc, err := NewPeerConnection(c.cfg, c.iceServers)
	if err != nil {
		return err
	}
	att.PC = pc

	SetupTeardownHandlers(pc, att)
	connected := ConnectionEstablished(pc, att)

	if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionRecvonly,
	}); err != nil {
		return NewError("add video transceiver", err)
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		slog.Info("inbound media track", "codec", track.Codec().MimeType)
		c.renderer.Attach(track)
	})

	dc, err := CreateDataChannel(pc, "input")
	if err != nil {
		return err
	}
	att.SetDataChannel(dc)

	shape := signaling.ShapeBare
	if c.cfg.WrapCandidates {
		shape = signaling.ShapeWrapped
	}
	ForwardLocalCandidates(pc, att, shape)

	offer, err := CreateOffer(pc)
	if err != nil {
		return err
	}

	payload, err := signaling.MarshalDescription(offer)
	if err != nil {
		return NewError("marshal offer", err)
	}
	if err := att.Client.Send(ctx, payload, att.Remote); err != nil {
		return NewError("send offer", err)
	}

	return pumpNegotiation(ctx, att, connected, func(desc *signaling.Description) error {
		if desc.Type != "answer" {
			slog.Warn("ignoring unexpected description", "type", desc.Type)
			return nil
		}
		return pc.SetRemoteDescription(webrtc.SessionDescription{
			Type: webrtc.NewSDPType(desc.Type),
			SDP:  desc.SDP,
		})
	})
}

// Stream forwards local input occurrences until teardown. Each event is
// encoded through the protocol codec and sent on the data channel.
func (c *Consumer) Stream(ctx context.Context, att *Attempt) error {
	dc := att.DataChannel()
	if dc == nil {
		return ErrChannelNotOpen
	}

	for {
		select {
		case ev, ok := <-c.renderer.Events():
			if !ok {
				return ErrSessionTornDown
			}

			raw, err := protocol.Encode(ev.Type, ev.Data)
			if err != nil {
				slog.Error("encode input event", "type", ev.Type, "err", err)
				continue
			}
			if err := dc.Send(raw); err != nil {
				return WrapError("forward input", ErrSessionTornDown, err.Error())
			}

		case <-att.Disconnected():
			return ErrSessionTornDown

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pumpNegotiation feeds inbound negotiation messages to the local peer
// connection, strictly in the order the channel delivered them, until
// the connection is established.
func pumpNegotiation(ctx context.Context, att *Attempt, connected <-chan struct{}, onDesc func(*signaling.Description) error) error {
	for {
		var msg signaling.PeerMessage

		if pending, ok := att.PopPending(); ok {
			msg = pending
		} else {
			var open bool
			select {
			case <-connected:
				return nil
			case <-att.Disconnected():
				return ErrSessionTornDown
			case <-ctx.Done():
				return ctx.Err()
			case msg, open = <-att.Handler.Message:
				if !open {
					return ErrSessionTornDown
				}
			}
		}

		if msg.From != att.Remote {
			slog.Debug("dropping message from unexpected sender", "from", msg.From)
			continue
		}

		neg, perr := signaling.ParseNegotiation(msg.Payload)
		if perr != nil {
			slog.Warn("bad negotiation payload", "from", msg.From, "err", perr)
			continue
		}

		switch {
		case neg.Candidate != nil:
			if err := ApplyCandidate(att.PC, neg.Candidate); err != nil {
				slog.Warn("apply remote candidate", "err", err)
			}
		case neg.Desc != nil:
			if err := onDesc(neg.Desc); err != nil {
				return NewError("apply remote description", err)
			}
		}
	}
}

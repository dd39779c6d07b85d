package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panecast/panecast/internal/capture"
	"github.com/panecast/panecast/internal/config"
	"github.com/panecast/panecast/internal/input"
	"github.com/panecast/panecast/internal/protocol"
	"github.com/panecast/panecast/internal/signaling"
	"github.com/pion/webrtc/v4"
)

// Provider answers sessions: it exposes a previously acquired capture
// stream as outbound media and replays every inbound input message
// against its target surface.
type Provider struct {
	cfg        *config.Config
	iceServers []webrtc.ICEServer
	stream     capture.Stream
	translator *input.Translator
}

// NewProvider creates the provider role. The capture stream is acquired
// at boot, before the first sign-in.
func NewProvider(cfg *config.Config, iceServers []webrtc.ICEServer, stream capture.Stream, translator *input.Translator) *Provider {
	return &Provider{cfg: cfg, iceServers: iceServers, stream: stream, translator: translator}
}

func (p *Provider) Name() string { return "provider" }

// AwaitRemote waits, indefinitely if need be, for the first inbound
// negotiation message and records its sender as the active remote. The
// message itself is re-queued for the negotiation loop.
func (p *Provider) AwaitRemote(ctx context.Context, att *Attempt) (string, error) {
	msg, err := att.NextMessage(ctx)
	if err != nil {
		return "", err
	}

	att.PushPending(msg)
	return msg.From, nil
}

// Negotiate answers the consumer's offer and pumps negotiation messages
// until the peer connection is up.
func (p *Provider) Negotiate(ctx context.Context, att *Attempt) error {
	if p.stream == nil {
		return ErrNoCaptureTrack
	}

	pc, err := NewPeerConnection(p.cfg, p.iceServers)
	if err != nil {
		return err
	}
	att.PC = pc

	SetupTeardownHandlers(pc, att)
	connected := ConnectionEstablished(pc, att)

	if _, err := pc.AddTrack(p.stream.Track()); err != nil {
		return NewError("add capture track", err)
	}

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != "input" {
			return
		}
		att.SetDataChannel(dc)
		p.setupInputHandlers(dc)
	})

	shape := signaling.ShapeBare
	if p.cfg.WrapCandidates {
		shape = signaling.ShapeWrapped
	}
	ForwardLocalCandidates(pc, att, shape)

	return pumpNegotiation(ctx, att, connected, func(desc *signaling.Description) error {
		if desc.Type != "offer" {
			slog.Warn("ignoring unexpected description", "type", desc.Type)
			return nil
		}

		answer, err := CreateAnswer(pc, &webrtc.SessionDescription{
			Type: webrtc.NewSDPType(desc.Type),
			SDP:  desc.SDP,
		})
		if err != nil {
			return err
		}

		payload, err := signaling.MarshalDescription(answer)
		if err != nil {
			return err
		}
		return att.Client.Send(ctx, payload, att.Remote)
	})
}

// Stream waits for teardown. Input replay happens on the data channel
// callback, which pion serializes per channel, so messages are decoded
// and applied strictly in arrival order.
func (p *Provider) Stream(ctx context.Context, att *Attempt) error {
	select {
	case <-att.Disconnected():
		return ErrSessionTornDown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// setupInputHandlers decodes and replays inbound input messages. Each
// message is fully processed before the next is read; translation never
// suspends.
func (p *Provider) setupInputHandlers(dc *webrtc.DataChannel) {
	dc.OnOpen(func() {
		slog.Info("input channel open", "label", dc.Label())
	})

	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		decoded, err := protocol.Decode(msg.Data)
		switch {
		case errors.Is(err, protocol.ErrUnknownMessageType):
			// Forward-compatible senders must not wedge us.
			slog.Warn("skipping unknown input message", "type", decoded.Type)
			return
		case err != nil:
			slog.Error("drop undecodable input message", "err", err)
			return
		}

		if err := p.translator.Apply(decoded); err != nil {
			slog.Error("replay input message", "type", decoded.Type, "err", err)
		}
	})
}

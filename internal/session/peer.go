package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/panecast/panecast/internal/config"
	"github.com/panecast/panecast/internal/relay"
	"github.com/panecast/panecast/internal/signaling"
	"github.com/panecast/panecast/internal/utils"
	"github.com/pion/webrtc/v4"
)

// ICEServers assembles the peer connection's ICE server list: static
// STUN/TURN from configuration, plus provisioned relay credentials when
// a credential endpoint is configured. Called once at boot.
func ICEServers(ctx context.Context, cfg *config.Config) []webrtc.ICEServer {
	servers := []webrtc.ICEServer{{URLs: cfg.GetSTUNServers()}}

	if turnServers := cfg.GetTURNServers(); turnServers != nil {
		username, password := cfg.GetTURNCredentials()
		servers = append(servers, webrtc.ICEServer{
			URLs:       turnServers,
			Username:   username,
			Credential: password,
		})
	}

	if cfg.CredentialURL != "" {
		provisioned, err := relay.Fetch(ctx, cfg.CredentialURL, cfg.CredentialKey)
		if err != nil {
			slog.Warn("relay credential fetch failed", "err", err)
		} else {
			servers = append(servers, relay.ToICEServers(provisioned)...)
		}
	}

	return servers
}

// NewPeerConnection builds a pion peer connection for one attempt.
func NewPeerConnection(cfg *config.Config, iceServers []webrtc.ICEServer) (*webrtc.PeerConnection, error) {
	policy := webrtc.ICETransportPolicyAll
	if cfg.GetTURNServers() != nil && (cfg.ForceRelay || utils.ShouldForceRelay()) {
		policy = webrtc.ICETransportPolicyRelay
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers:         iceServers,
		ICETransportPolicy: policy,
	})
	if err != nil {
		return nil, NewError("create peer connection", err)
	}
	return pc, nil
}

// SetupTeardownHandlers marks the attempt disconnected as soon as the
// peer connection reports failure or close.
func SetupTeardownHandlers(pc *webrtc.PeerConnection, att *Attempt) {
	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		if state == webrtc.ICEConnectionStateFailed || state == webrtc.ICEConnectionStateClosed {
			att.MarkDisconnected()
		}
	})
}

// ForwardLocalCandidates relays every locally gathered candidate to the
// remote participant, serialized in the shape that peer expects.
func ForwardLocalCandidates(pc *webrtc.PeerConnection, att *Attempt, shape signaling.CandidateShape) {
	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}

		payload, err := signaling.MarshalCandidate(c.ToJSON(), shape)
		if err != nil {
			slog.Error("marshal local candidate", "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := att.Client.Send(ctx, payload, att.Remote); err != nil {
			slog.Warn("send local candidate", "err", err)
		}
	})
}

// ConnectionEstablished returns a channel closed once the peer
// connection reports connected.
func ConnectionEstablished(pc *webrtc.PeerConnection, att *Attempt) <-chan struct{} {
	connected := make(chan struct{})
	var done bool

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		switch state {
		case webrtc.PeerConnectionStateConnected:
			if !done {
				done = true
				close(connected)
			}
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			att.MarkDisconnected()
		}
	})

	return connected
}

// CreateDataChannel opens the ordered, reliable channel the input
// protocol rides on.
func CreateDataChannel(pc *webrtc.PeerConnection, label string) (*webrtc.DataChannel, error) {
	ordered := true
	dc, err := pc.CreateDataChannel(label, &webrtc.DataChannelInit{
		Ordered: &ordered,
	})
	if err != nil {
		return nil, NewError("create data channel", err)
	}
	return dc, nil
}

// CreateOffer produces and installs the local offer.
func CreateOffer(pc *webrtc.PeerConnection) (*webrtc.SessionDescription, error) {
	offer, err := pc.CreateOffer(nil)
	if err != nil {
		return nil, NewError("create offer", err)
	}

	if err = pc.SetLocalDescription(offer); err != nil {
		return nil, NewError("set local description", err)
	}

	return pc.LocalDescription(), nil
}

// CreateAnswer installs the remote offer and produces the local answer.
func CreateAnswer(pc *webrtc.PeerConnection, offer *webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	if err := pc.SetRemoteDescription(*offer); err != nil {
		return nil, NewError("set remote description", err)
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		return nil, NewError("create answer", err)
	}

	if err = pc.SetLocalDescription(answer); err != nil {
		return nil, NewError("set local description", err)
	}

	return pc.LocalDescription(), nil
}

// ApplyCandidate feeds a normalized remote candidate to the local peer
// connection.
func ApplyCandidate(pc *webrtc.PeerConnection, init *webrtc.ICECandidateInit) error {
	if err := pc.AddICECandidate(*init); err != nil {
		return NewError("add ICE candidate", err)
	}
	return nil
}

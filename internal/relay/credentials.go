// Package relay fetches time-limited relay credentials from an external
// provisioning service. The fetch happens once at boot; the returned
// entries are merged into the peer connection's ICE server list.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pion/webrtc/v4"
)

const fetchTimeout = 10 * time.Second

// IceServer is one relay entry as provisioned by the credential
// service.
type IceServer struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username"`
	Credential string   `json:"credential"`
}

type credentialResponse struct {
	IceServers []IceServer `json:"iceServers"`
}

// Fetch requests relay credentials from the given endpoint. The key is
// sent as a bearer token when set.
func Fetch(ctx context.Context, endpoint, key string) ([]IceServer, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build credential request: %w", err)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch relay credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("credential service returned status %d", resp.StatusCode)
	}

	var out credentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode credential response: %w", err)
	}
	return out.IceServers, nil
}

// ToICEServers converts provisioned entries into pion's configuration
// type.
func ToICEServers(servers []IceServer) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		out = append(out, webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}
	return out
}

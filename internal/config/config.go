package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default configuration values (production)
const (
	DefaultDomain       = "rendezvous.panecast.dev"
	DefaultSTUN         = "stun:stun.l.google.com:19302"
	DefaultTURN         = "" // Optional, empty by default
	DefaultTURNUser     = ""
	DefaultTURNPass     = ""
	DefaultPollInterval = 750 * time.Millisecond
	DefaultNameBase     = "panecast"
)

// Backoff bounds for the session recovery loop. Reconnects are retried
// forever, but never faster than MinRetryDelay and never slower than
// MaxRetryDelay.
const (
	MinRetryDelay = 500 * time.Millisecond
	MaxRetryDelay = 15 * time.Second
)

// Config holds application configuration
type Config struct {
	// Domain is the rendezvous server domain
	Domain string

	// RendezvousURL is the polling endpoint, constructed from domain
	RendezvousURL string

	// PollInterval is how often the signaling channel re-fetches the roster
	PollInterval time.Duration

	// NameBase is the display-name prefix used when signing in; a fresh
	// random suffix is appended per attempt
	NameBase string

	// ICE servers for WebRTC
	STUNServer string
	TURNServer string
	TURNUser   string
	TURNPass   string
	ForceRelay bool

	// CredentialURL, if set, is queried once at boot for time-limited
	// relay credentials that are merged into the ICE server list
	CredentialURL string
	CredentialKey string

	// WrapCandidates selects the outbound ICE candidate wire shape: the
	// wrapped {candidate:{...}} form when true, bare fields when false
	WrapCandidates bool
}

// Options for loading config with CLI flag overrides
type Options struct {
	Domain        string
	PollInterval  time.Duration
	NameBase      string
	STUNServer    string
	TURNServer    string
	TURNUser      string
	TURNPass      string
	ForceRelay    bool
	CredentialURL string
	CredentialKey string
	BareShape     bool
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. Hardcoded defaults - lowest priority
func Load(opts Options) (*Config, error) {
	domain := firstNonEmpty(opts.Domain, os.Getenv("PANECAST_DOMAIN"), DefaultDomain)
	stunServer := firstNonEmpty(opts.STUNServer, os.Getenv("STUN_SERVER"), DefaultSTUN)
	turnServer := firstNonEmpty(opts.TURNServer, os.Getenv("TURN_SERVER"), DefaultTURN)
	turnUser := firstNonEmpty(opts.TURNUser, os.Getenv("TURN_USERNAME"), DefaultTURNUser)
	turnPass := firstNonEmpty(opts.TURNPass, os.Getenv("TURN_PASSWORD"), DefaultTURNPass)
	credURL := firstNonEmpty(opts.CredentialURL, os.Getenv("RELAY_CREDENTIAL_URL"), "")
	credKey := firstNonEmpty(opts.CredentialKey, os.Getenv("RELAY_CREDENTIAL_KEY"), "")
	nameBase := firstNonEmpty(opts.NameBase, os.Getenv("PANECAST_NAME"), DefaultNameBase)

	pollInterval := opts.PollInterval
	if pollInterval == 0 {
		if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
			ms, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid POLL_INTERVAL_MS: %w", err)
			}
			pollInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	// The rendezvous protocol is polling HTTP, so a plain URL, not a
	// websocket one. Bare host:port domains (local server) stay http.
	scheme := "https"
	if isLocal(domain) {
		scheme = "http"
	}
	rendezvousURL := fmt.Sprintf("%s://%s", scheme, domain)

	return &Config{
		Domain:         domain,
		RendezvousURL:  rendezvousURL,
		PollInterval:   pollInterval,
		NameBase:       nameBase,
		STUNServer:     stunServer,
		TURNServer:     turnServer,
		TURNUser:       turnUser,
		TURNPass:       turnPass,
		ForceRelay:     opts.ForceRelay,
		CredentialURL:  credURL,
		CredentialKey:  credKey,
		WrapCandidates: !opts.BareShape,
	}, nil
}

// GetSTUNServers returns STUN server URLs as strings
func (c *Config) GetSTUNServers() []string {
	return []string{c.STUNServer}
}

// GetTURNServers returns TURN server URLs if configured
func (c *Config) GetTURNServers() []string {
	if c.TURNServer == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("%s:3478?transport=udp", c.TURNServer),
		fmt.Sprintf("%s:3478?transport=tcp", c.TURNServer),
		fmt.Sprintf("turns:%s:5349?transport=tcp", c.TURNServer),
	}
}

// GetTURNCredentials returns TURN username and password
func (c *Config) GetTURNCredentials() (string, string) {
	return c.TURNUser, c.TURNPass
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isLocal(domain string) bool {
	for _, prefix := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if domain == prefix {
			return true
		}
		if len(domain) > len(prefix) && domain[:len(prefix)+1] == prefix+":" {
			return true
		}
	}
	return false
}

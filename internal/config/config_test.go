package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultDomain, cfg.Domain)
	assert.Equal(t, "https://"+DefaultDomain, cfg.RendezvousURL)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultNameBase, cfg.NameBase)
	assert.Equal(t, DefaultSTUN, cfg.STUNServer)
	assert.Empty(t, cfg.TURNServer)
	assert.True(t, cfg.WrapCandidates)
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	t.Setenv("PANECAST_DOMAIN", "env.example.com")
	t.Setenv("PANECAST_NAME", "env-name")

	cfg, err := Load(Options{Domain: "flag.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "flag.example.com", cfg.Domain)
	// Env still wins over the default when no flag is set.
	assert.Equal(t, "env-name", cfg.NameBase)
}

func TestLoadLocalDomainUsesPlainHTTP(t *testing.T) {
	for _, domain := range []string{"localhost:8787", "127.0.0.1:8787", "localhost"} {
		cfg, err := Load(Options{Domain: domain})
		require.NoError(t, err)
		assert.Equal(t, "http://"+domain, cfg.RendezvousURL, "domain %s", domain)
	}

	cfg, err := Load(Options{Domain: "rendezvous.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://rendezvous.example.com", cfg.RendezvousURL)
}

func TestLoadPollIntervalFromEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "250")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestLoadPollIntervalRejectsGarbageEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "soon")

	_, err := Load(Options{})
	require.Error(t, err)
}

func TestLoadBareShapeFlag(t *testing.T) {
	cfg, err := Load(Options{BareShape: true})
	require.NoError(t, err)
	assert.False(t, cfg.WrapCandidates)
}

func TestGetTURNServers(t *testing.T) {
	cfg := &Config{}
	assert.Nil(t, cfg.GetTURNServers())

	cfg.TURNServer = "turn:relay.example.com"
	servers := cfg.GetTURNServers()
	require.Len(t, servers, 3)
	assert.Equal(t, "turn:relay.example.com:3478?transport=udp", servers[0])
	assert.Equal(t, "turn:relay.example.com:3478?transport=tcp", servers[1])
	assert.Contains(t, servers[2], "5349?transport=tcp")
}

func TestGetTURNCredentials(t *testing.T) {
	cfg := &Config{TURNUser: "user", TURNPass: "pass"}
	user, pass := cfg.GetTURNCredentials()
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}

package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"iceServers":[{"urls":["turn:relay.example.com:3478"],"username":"u1","credential":"c1"}]}`))
	}))
	defer ts.Close()

	servers, err := Fetch(context.Background(), ts.URL, "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	require.Len(t, servers, 1)
	assert.Equal(t, []string{"turn:relay.example.com:3478"}, servers[0].URLs)
	assert.Equal(t, "u1", servers[0].Username)
	assert.Equal(t, "c1", servers[0].Credential)
}

func TestFetchOmitsAuthWithoutKey(t *testing.T) {
	var sawAuth bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		_, _ = w.Write([]byte(`{"iceServers":[]}`))
	}))
	defer ts.Close()

	_, err := Fetch(context.Background(), ts.URL, "")
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := Fetch(context.Background(), ts.URL, "bad-key")
	require.Error(t, err)
}

func TestToICEServers(t *testing.T) {
	out := ToICEServers([]IceServer{
		{URLs: []string{"turn:a:3478"}, Username: "u", Credential: "c"},
		{URLs: []string{"stun:b:3478"}},
	})

	require.Len(t, out, 2)
	assert.Equal(t, []string{"turn:a:3478"}, out[0].URLs)
	assert.Equal(t, "u", out[0].Username)
	assert.Equal(t, "c", out[0].Credential)
	assert.Equal(t, []string{"stun:b:3478"}, out[1].URLs)
}

package signaling

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRendezvous(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(time.Minute).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestClientSignInSignOut(t *testing.T) {
	ts := startRendezvous(t)
	client := NewClient(ts.URL, 10*time.Millisecond)

	ctx := context.Background()
	id, roster, err := client.SignIn(ctx, "viewer-1234")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, client.ID())
	require.Len(t, roster, 1)
	assert.Equal(t, "viewer-1234", roster[0].Name)

	require.NoError(t, client.SignOut(ctx))
	assert.Empty(t, client.ID())

	// Signing out when not signed in is a no-op.
	require.NoError(t, client.SignOut(ctx))
}

func TestClientSignInUnreachableServer(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := client.SignIn(ctx, "viewer")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientSendAndPoll(t *testing.T) {
	ts := startRendezvous(t)
	ctx := context.Background()

	sender := NewClient(ts.URL, 10*time.Millisecond)
	_, _, err := sender.SignIn(ctx, "sender")
	require.NoError(t, err)

	receiver := NewClient(ts.URL, 10*time.Millisecond)
	receiverID, _, err := receiver.SignIn(ctx, "receiver")
	require.NoError(t, err)

	require.NoError(t, sender.Send(ctx, `{"type":"offer","sdp":"v=0"}`, receiverID))

	resp, err := receiver.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, sender.ID(), resp.Messages[0].From)
	assert.Equal(t, `{"type":"offer","sdp":"v=0"}`, resp.Messages[0].Payload)
	assert.Len(t, resp.Peers, 2)
}

func TestClientPollLoopDeliversRounds(t *testing.T) {
	ts := startRendezvous(t)
	ctx := context.Background()

	client := NewClient(ts.URL, 10*time.Millisecond)
	_, _, err := client.SignIn(ctx, "poller")
	require.NoError(t, err)

	client.Start()
	defer client.Close()

	select {
	case res := <-client.Incoming():
		require.NoError(t, res.Err)
		require.NotNil(t, res.Response)
		assert.Len(t, res.Response.Peers, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no poll round arrived")
	}
}

func TestHandlerRoutesJoinsMessagesAndLeaves(t *testing.T) {
	ts := startRendezvous(t)
	ctx := context.Background()

	client := NewClient(ts.URL, 10*time.Millisecond)
	_, roster, err := client.SignIn(ctx, "watcher")
	require.NoError(t, err)

	handler := NewHandler(client)
	handler.Seed(roster)
	client.Start()
	defer client.Close()
	go handler.Start()

	peer := NewClient(ts.URL, 10*time.Millisecond)
	peerID, _, err := peer.SignIn(ctx, "newcomer")
	require.NoError(t, err)

	select {
	case joined := <-handler.PeerJoined:
		assert.Equal(t, peerID, joined.ID)
		assert.Equal(t, "newcomer", joined.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("join never reported")
	}

	require.NoError(t, peer.Send(ctx, "hello", client.ID()))

	select {
	case msg := <-handler.Message:
		assert.Equal(t, peerID, msg.From)
		assert.Equal(t, "hello", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("message never routed")
	}

	require.NoError(t, peer.SignOut(ctx))

	select {
	case left := <-handler.PeerLeft:
		assert.Equal(t, peerID, left)
	case <-time.After(2 * time.Second):
		t.Fatal("leave never reported")
	}
}

// Teardown while the handler is mid-delivery must stop it cleanly: the
// handler may be blocked sending a full poll round when the attempt
// closes underneath it.
func TestHandlerCloseDuringDelivery(t *testing.T) {
	ts := startRendezvous(t)
	ctx := context.Background()

	receiver := NewClient(ts.URL, 5*time.Millisecond)
	_, roster, err := receiver.SignIn(ctx, "receiver")
	require.NoError(t, err)

	sender := NewClient(ts.URL, 5*time.Millisecond)
	_, _, err = sender.SignIn(ctx, "sender")
	require.NoError(t, err)

	// Queue more messages than the handler's buffer holds, so delivery
	// blocks once nobody drains.
	for i := 0; i < 80; i++ {
		require.NoError(t, sender.Send(ctx, "payload", receiver.ID()))
	}

	handler := NewHandler(receiver)
	handler.Seed(roster)
	receiver.Start()

	exited := make(chan struct{})
	go func() {
		handler.Start()
		close(exited)
	}()

	// One read proves a delivery round is in flight.
	select {
	case <-handler.Message:
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}

	receiver.Close()
	handler.Close()

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never stopped after close")
	}

	// Start closed its channels on the way out.
	for range handler.Message {
	}
	_, open := <-handler.Errors
	assert.False(t, open)
}

func TestClientSignOutWhilePolling(t *testing.T) {
	ts := startRendezvous(t)
	ctx := context.Background()

	client := NewClient(ts.URL, time.Millisecond)
	_, _, err := client.SignIn(ctx, "short-lived")
	require.NoError(t, err)

	client.Start()

	// Let a few poll rounds run, then sign out underneath the loop.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, client.SignOut(ctx))
	assert.Empty(t, client.ID())

	client.Close()
	for range client.Incoming() {
	}
}

func TestHandlerDoesNotReportSeededPeersAsJoins(t *testing.T) {
	ts := startRendezvous(t)
	ctx := context.Background()

	early := NewClient(ts.URL, 10*time.Millisecond)
	_, _, err := early.SignIn(ctx, "early")
	require.NoError(t, err)

	client := NewClient(ts.URL, 10*time.Millisecond)
	_, roster, err := client.SignIn(ctx, "late")
	require.NoError(t, err)
	require.Len(t, roster, 2)

	handler := NewHandler(client)
	handler.Seed(roster)
	client.Start()
	defer client.Close()
	go handler.Start()

	select {
	case joined := <-handler.PeerJoined:
		t.Fatalf("seeded peer %q re-reported as join", joined.Name)
	case <-time.After(100 * time.Millisecond):
	}
}

package signaling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/panecast/panecast/internal/dns"
)

const requestTimeout = 10 * time.Second

// PollResult is one completed poll round, or the transport error that
// ended it.
type PollResult struct {
	Response *PollResponse
	Err      error
}

// Client speaks the polling rendezvous protocol: it registers a named
// participant, periodically re-fetches the roster, and relays opaque
// payloads addressed by participant id. Discovery latency is bounded by
// one poll interval.
type Client struct {
	serverURL    string
	pollInterval time.Duration
	http         *http.Client
	incoming     chan PollResult
	done         chan struct{}

	// mu guards id and closed; both are touched from the caller's
	// goroutine and the poll loop.
	mu     sync.Mutex
	id     string
	closed bool
}

// NewClient creates a new signaling client
func NewClient(serverURL string, pollInterval time.Duration) *Client {
	// Custom dialer that uses our robust DNS lookup, so the rendezvous
	// host resolves even behind broken local resolvers.
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}

			resolvedIP, err := dns.Lookup(host)
			if err != nil {
				return nil, fmt.Errorf("dns lookup failed: %w", err)
			}

			d := new(net.Dialer)
			return d.DialContext(ctx, network, net.JoinHostPort(resolvedIP, port))
		},
	}

	return &Client{
		serverURL:    strings.TrimSuffix(serverURL, "/"),
		pollInterval: pollInterval,
		http:         &http.Client{Transport: transport, Timeout: requestTimeout},
		incoming:     make(chan PollResult, 8),
		done:         make(chan struct{}),
	}
}

// ID returns the channel-assigned participant id, empty before sign-in.
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// SignIn registers the caller under the given display name and returns
// the assigned id plus the current roster, including self.
func (c *Client) SignIn(ctx context.Context, name string) (string, []Participant, error) {
	body, err := json.Marshal(SignInRequest{Name: name})
	if err != nil {
		return "", nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	var resp SignInResponse
	if err := c.post(ctx, "/signin", nil, bytes.NewReader(body), &resp); err != nil {
		return "", nil, err
	}

	c.mu.Lock()
	c.id = resp.ID
	c.mu.Unlock()
	return resp.ID, resp.Peers, nil
}

// SignOut deregisters the participant. Calling it when not signed in is
// a no-op, not an error.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	id := c.id
	c.id = ""
	c.mu.Unlock()

	if id == "" {
		return nil
	}
	return c.post(ctx, "/signout", url.Values{"id": {id}}, nil, nil)
}

// Send delivers an opaque payload to one participant, best effort. No
// delivery confirmation is given beyond the server having queued it.
func (c *Client) Send(ctx context.Context, payload, to string) error {
	query := url.Values{"id": {c.ID()}, "to": {to}}
	return c.post(ctx, "/send", query, strings.NewReader(payload), nil)
}

// Poll performs a single poll round for the signed-in participant.
func (c *Client) Poll(ctx context.Context) (*PollResponse, error) {
	endpoint := fmt.Sprintf("%s/poll?%s", c.serverURL, url.Values{"id": {c.ID()}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, readError(resp.Body, resp.StatusCode))
	}

	var out PollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &out, nil
}

// Start launches the poll loop. Results, including transport errors,
// arrive on Incoming until Close is called.
func (c *Client) Start() {
	go c.pollLoop()
}

// Incoming returns the channel carrying poll rounds.
func (c *Client) Incoming() <-chan PollResult {
	return c.incoming
}

// Close stops the poll loop and releases the incoming channel.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
}

func (c *Client) pollLoop() {
	ticker := time.NewTicker(c.pollInterval)

	defer func() {
		ticker.Stop()
		close(c.incoming)
	}()

	for {
		select {
		case <-c.done:
			return

		case <-ticker.C:
			if c.ID() == "" {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			resp, err := c.Poll(ctx)
			cancel()

			select {
			case c.incoming <- PollResult{Response: resp, Err: err}:
			case <-c.done:
				return
			}
		}
	}
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body io.Reader, out any) error {
	endpoint := c.serverURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnavailable, readError(resp.Body, resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func readError(body io.Reader, status int) string {
	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return fmt.Sprintf("status %d", status)
}

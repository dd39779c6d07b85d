package signaling

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxPayloadSize = 64 * 1024

// DefaultParticipantTimeout is how long a participant may go without
// polling before it is evicted from the roster.
const DefaultParticipantTimeout = 10 * time.Second

type serverParticipant struct {
	Participant
	queue    []PeerMessage
	lastSeen time.Time
	joined   time.Time
}

// Server is the polling rendezvous: it assigns participant ids, serves
// the roster, and queues opaque payloads per recipient until the next
// poll. Participants that stop polling are evicted after the timeout.
type Server struct {
	mu           sync.Mutex
	participants map[string]*serverParticipant
	timeout      time.Duration
	now          func() time.Time
}

// NewServer creates a rendezvous server with the given eviction timeout.
func NewServer(timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = DefaultParticipantTimeout
	}
	return &Server{
		participants: make(map[string]*serverParticipant),
		timeout:      timeout,
		now:          time.Now,
	}
}

// Handler returns the HTTP handler serving the rendezvous protocol.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", s.handleSignIn)
	mux.HandleFunc("GET /poll", s.handlePoll)
	mux.HandleFunc("POST /send", s.handleSend)
	mux.HandleFunc("POST /signout", s.handleSignOut)
	return mux
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadSize)).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid sign-in request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictStale()

	now := s.now()
	p := &serverParticipant{
		Participant: Participant{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Connected: true,
		},
		lastSeen: now,
		joined:   now,
	}
	s.participants[p.ID] = p

	writeJSON(w, SignInResponse{ID: p.ID, Peers: s.roster()})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictStale()

	p, ok := s.participants[id]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown participant")
		return
	}

	p.lastSeen = s.now()
	messages := p.queue
	p.queue = nil
	if messages == nil {
		messages = []PeerMessage{}
	}

	writeJSON(w, PollResponse{Peers: s.roster(), Messages: messages})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("id")
	to := r.URL.Query().Get("to")

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[from]; !ok {
		writeError(w, http.StatusNotFound, "unknown sender")
		return
	}

	target, ok := s.participants[to]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown recipient")
		return
	}

	target.queue = append(target.queue, PeerMessage{From: from, Payload: string(payload)})
	w.WriteHeader(http.StatusOK)
}

// handleSignOut always succeeds: signing out an unknown or already
// departed participant is a no-op.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	s.mu.Lock()
	delete(s.participants, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

// roster lists participants in join order. Callers must hold s.mu.
func (s *Server) roster() []Participant {
	out := make([]Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p.Participant)
	}

	// Stable order keeps remote selection deterministic for clients
	// that pick the first eligible entry.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := s.participants[out[j-1].ID], s.participants[out[j].ID]
			if a.joined.After(b.joined) {
				out[j-1], out[j] = out[j], out[j-1]
			}
		}
	}
	return out
}

// evictStale drops participants that have not polled within the
// timeout. Callers must hold s.mu.
func (s *Server) evictStale() {
	cutoff := s.now().Add(-s.timeout)
	for id, p := range s.participants {
		if p.lastSeen.Before(cutoff) {
			delete(s.participants, id)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"StrokeBoard/internal/state"

	"github.com/gorilla/websocket"
)

const (
	Path            = "/ws"
	SubmissionsPath = "/submissions"
)

const (
	TypeDraw     = "draw"
	TypeUndo     = "undo"
	TypeExport   = "export"
	TypeAck      = "ack"
	TypeRejected = "rejected"
)

// Message is the JSON envelope exchanged over the websocket.
type Message struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	OwnerID string          `json:"owner_id,omitempty"`
	Color   string          `json:"color,omitempty"`
	Lines   []state.Segment `json:"lines,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// Limits bound what the host accepts as a submission.
type Limits struct {
	MaxComplexity int
	Area          state.DrawingArea
}

// Peer is one connected board.
type Peer struct {
	Conn    *websocket.Conn
	OwnerID string
	mu      sync.Mutex
}

func (p *Peer) send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Conn.WriteJSON(msg)
}

// Host accepts submissions from boards, validates them and keeps the
// accepted ones in a store.
type Host struct {
	limits   Limits
	store    *state.Submissions
	upgrader websocket.Upgrader
	peers    map[string]*Peer
	mu       sync.RWMutex
	server   *http.Server

	// OnSubmission is called after a submission is stored.
	OnSubmission func(sub state.Submission)
}

func NewHost(store *state.Submissions, limits Limits) *Host {
	return &Host{
		limits: limits,
		store:  store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[string]*Peer),
	}
}

// Handler serves the websocket endpoint and a read-only JSON listing of
// the stored submissions.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, h.serveWS)
	mux.HandleFunc("GET "+SubmissionsPath, h.serveSubmissions)
	return mux
}

// serveSubmissions lists every submission, or only the latest one of the
// owner named by ?owner=.
func (h *Host) serveSubmissions(w http.ResponseWriter, r *http.Request) {
	subs := h.store.All()
	if owner := r.URL.Query().Get("owner"); owner != "" {
		sub, ok := h.store.ByOwner(owner)
		if !ok {
			http.Error(w, "no submission from "+owner, http.StatusNotFound)
			return
		}
		subs = []state.Submission{sub}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(subs); err != nil {
		log.Printf("[HOST] Listing submissions: %v", err)
	}
}

// ListenAndServe runs the host on port until ctx is cancelled.
func (h *Host) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to start host on port %d: %w", port, err)
	}
	return h.Serve(ctx, ln)
}

func (h *Host) Serve(ctx context.Context, ln net.Listener) error {
	h.server = &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	log.Printf("[HOST] Listening on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.server.Shutdown(shutdownCtx)
	}()

	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("host serve: %w", err)
	}
	return nil
}

func (h *Host) add(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p.OwnerID] = p
	log.Printf("[HOST] Board connected: %s", p.OwnerID)
}

func (h *Host) remove(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p.OwnerID)
	log.Printf("[HOST] Board disconnected: %s", p.OwnerID)
}

// PeerCount returns the number of connected boards.
func (h *Host) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	peer := &Peer{Conn: conn, OwnerID: r.RemoteAddr}
	h.add(peer)
	defer h.remove(peer)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[HOST] Read from %s: %v", peer.OwnerID, err)
			}
			return
		}

		reply, ok := h.handle(peer, msg)
		if !ok {
			continue
		}
		if err := peer.send(reply); err != nil {
			log.Printf("[HOST] Reply to %s: %v", peer.OwnerID, err)
			return
		}
	}
}

// handle processes one message. It returns the reply to send, if any.
func (h *Host) handle(peer *Peer, msg Message) (Message, bool) {
	owner := msg.OwnerID
	if owner == "" {
		owner = peer.OwnerID
	}

	switch msg.Type {
	case TypeDraw:
		log.Printf("[HOST] %s committed a stroke", owner)
		return Message{}, false
	case TypeUndo:
		log.Printf("[HOST] %s undid a stroke (color %s)", owner, msg.Color)
		return Message{}, false
	case TypeExport:
		if err := h.validate(msg.Lines); err != nil {
			log.Printf("[HOST] Rejected submission from %s: %v", owner, err)
			return Message{Type: TypeRejected, ID: msg.ID, Reason: err.Error()}, true
		}
		sub := h.store.Add(owner, msg.Lines)
		if area, ok := state.Bounds(sub.Lines, 0); ok {
			log.Printf("[HOST] Submission %s covers %s", sub.ID, area)
		}
		if h.OnSubmission != nil {
			h.OnSubmission(sub)
		}
		return Message{Type: TypeAck, ID: sub.ID}, true
	}

	log.Printf("[HOST] Unknown message type %q from %s", msg.Type, owner)
	return Message{Type: TypeRejected, ID: msg.ID, Reason: "unknown message type"}, true
}

func (h *Host) validate(lines []state.Segment) error {
	if len(lines) == 0 {
		return errors.New("empty drawing")
	}
	if h.limits.MaxComplexity > 0 && len(lines) > h.limits.MaxComplexity {
		return fmt.Errorf("drawing too complex: %d segments, limit %d", len(lines), h.limits.MaxComplexity)
	}
	if !h.limits.Area.Empty() && !state.Within(lines, h.limits.Area) {
		return errors.New("drawing leaves the canvas")
	}
	return nil
}

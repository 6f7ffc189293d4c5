package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"
	"github.com/gorilla/websocket"
)

var (
	ErrPeerNotConnected = errors.New("peer not connected")
	ErrHubClosed        = errors.New("hub closed")
)

// Handler receives every wire frame that passed the flood guard plus the
// synthesized SYS_USER_JOINED / SYS_USER_LEFT, which bypass the guard. It
// is called from the connection's read goroutine, in arrival order for
// that connection.
type Handler func(from string, env Envelope)

// Hub is the replication transport: a full mesh of peer connections
// addressed by peer id.
type Hub struct {
	localID string
	guard   *FloodGuard
	dialer  *websocket.Dialer
	log     *slog.Logger

	mu      sync.RWMutex
	peers   map[string]*Peer // open peers by id
	dialed  map[string]*Peer // outbound connections by address
	handler Handler
	closed  bool
}

func NewHub(localID string, guard *FloodGuard) *Hub {
	if guard == nil {
		guard = NewFloodGuard(DefaultFloodWindow, DefaultFloodLimit)
	}
	return &Hub{
		localID: localID,
		guard:   guard,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:     logger.With("component", "hub", "peer", localID),
		peers:   make(map[string]*Peer),
		dialed:  make(map[string]*Peer),
	}
}

func (h *Hub) LocalID() string { return h.localID }

// Handle installs the frame handler. It must be set before any connection
// is accepted or dialed.
func (h *Hub) Handle(fn Handler) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

// Accept takes ownership of an inbound connection.
func (h *Hub) Accept(conn *websocket.Conn) {
	h.attach(conn, "")
}

// Dial opens an outbound connection. Dialing an address that is already
// connected is a no-op.
func (h *Hub) Dial(ctx context.Context, addr string) error {
	h.mu.RLock()
	_, connected := h.dialed[addr]
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrHubClosed
	}
	if connected {
		return nil
	}

	conn, _, err := h.dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	h.mu.Lock()
	if _, ok := h.dialed[addr]; ok || h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	p := h.start(conn, addr)
	h.dialed[addr] = p
	h.mu.Unlock()

	h.log.Info("dialed peer", "addr", addr)
	return nil
}

func (h *Hub) attach(conn *websocket.Conn, addr string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		_ = conn.Close()
		return
	}
	h.start(conn, addr)
}

// start must be called with h.mu held.
func (h *Hub) start(conn *websocket.Conn, addr string) *Peer {
	p := newPeer(h, conn, addr)
	hello := MustEncode(MsgHello, HelloPayload{PeerID: h.localID})
	b, _ := hello.Bytes()
	p.send <- b
	go p.writePump()
	go p.readPump()
	return p
}

// register promotes p to an open peer after its HELLO. Self connections
// are refused. When id is already connected the connection dialed by the
// lower peer id wins on both ends, so two nodes dialing each other at
// once settle on the same link.
func (h *Hub) register(p *Peer, id string) bool {
	h.mu.Lock()
	old := h.peers[id]
	switch {
	case id == "" || id == h.localID:
		h.mu.Unlock()
		h.log.Warn("hello refused", "remote", id, "reason", "self or empty id")
		return false
	case h.closed:
		h.mu.Unlock()
		return false
	case old != nil && !(h.preferred(p, id) && !h.preferred(old, id)):
		h.mu.Unlock()
		h.log.Info("hello refused", "remote", id, "reason", "already connected")
		return false
	}
	p.id = id
	p.open.Store(true)
	h.peers[id] = p
	h.mu.Unlock()

	if old != nil {
		// old is no longer in peers, so its detach stays silent.
		old.Close()
		h.log.Info("peer link replaced", "remote", id, "outbound", p.addr != "")
	} else {
		PeersConnected.Inc()
		h.log.Info("peer connected", "remote", id, "outbound", p.addr != "")
	}
	// Announced again on replacement: frames queued on the old link may
	// have been lost with it.
	h.deliver(id, MustEncode(MsgUserJoined, PeerPayload{PeerID: id}))
	return true
}

// preferred reports whether p was dialed by the lower of the two ids.
func (h *Hub) preferred(p *Peer, remoteID string) bool {
	outbound := p.addr != ""
	return outbound == (h.localID < remoteID)
}

// detach forgets p once its read pump has ended.
func (h *Hub) detach(p *Peer) {
	h.mu.Lock()
	if p.addr != "" && h.dialed[p.addr] == p {
		delete(h.dialed, p.addr)
	}
	wasOpen := p.id != "" && h.peers[p.id] == p
	if wasOpen {
		delete(h.peers, p.id)
	}
	h.mu.Unlock()

	if wasOpen {
		PeersConnected.Dec()
		h.log.Info("peer disconnected", "remote", p.id)
		h.deliver(p.id, MustEncode(MsgUserLeft, PeerPayload{PeerID: p.id}))
	}
}

// dispatch passes a frame read from the wire through the flood guard.
func (h *Hub) dispatch(from string, env Envelope) {
	if h.guard.IsDuplicate(env) {
		FramesDropped.WithLabelValues("flood").Inc()
		h.log.Debug("duplicate frame suppressed", "from", from, "type", env.Type)
		return
	}
	h.deliver(from, env)
}

func (h *Hub) deliver(from string, env Envelope) {
	h.mu.RLock()
	fn := h.handler
	h.mu.RUnlock()
	if fn != nil {
		fn(from, env)
	}
}

// Broadcast queues env to every open peer and returns how many accepted
// it. Peers that are not open are skipped.
func (h *Hub) Broadcast(env Envelope) int {
	b, err := env.Bytes()
	if err != nil {
		h.log.Error("broadcast encode failed", "type", env.Type, "error", err)
		return 0
	}
	h.mu.RLock()
	targets := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		if p.Open() {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	n := 0
	for _, p := range targets {
		if p.enqueue(b) {
			n++
		}
	}
	FramesSent.WithLabelValues(env.Type).Add(float64(n))
	return n
}

// SendTo queues env to a single open peer.
func (h *Hub) SendTo(peerID string, env Envelope) error {
	h.mu.RLock()
	p := h.peers[peerID]
	h.mu.RUnlock()
	if p == nil || !p.Open() {
		return fmt.Errorf("%w: %s", ErrPeerNotConnected, peerID)
	}
	b, err := env.Bytes()
	if err != nil {
		return err
	}
	if !p.enqueue(b) {
		return fmt.Errorf("%w: %s", ErrPeerNotConnected, peerID)
	}
	FramesSent.WithLabelValues(env.Type).Inc()
	return nil
}

// PeerIDs returns the ids of the open peers, sorted.
func (h *Hub) PeerIDs() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.peers))
	for id, p := range h.peers {
		if p.Open() {
			ids = append(ids, id)
		}
	}
	h.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Close disconnects every peer and refuses new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := make([]*Peer, 0, len(h.peers)+len(h.dialed))
	for _, p := range h.peers {
		all = append(all, p)
	}
	for _, p := range h.dialed {
		all = append(all, p)
	}
	h.mu.Unlock()

	for _, p := range all {
		p.Close()
	}
}

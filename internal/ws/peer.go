package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxFrameSize = 64 << 10
	sendBuffer   = 256
)

// Peer is one websocket connection to another node. It becomes open once
// the remote HELLO has been accepted by the hub.
type Peer struct {
	hub  *Hub
	conn *websocket.Conn
	addr string // dial address, empty for inbound connections
	send chan []byte

	id   string
	open atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(h *Hub, conn *websocket.Conn, addr string) *Peer {
	return &Peer{
		hub:  h,
		conn: conn,
		addr: addr,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (p *Peer) ID() string   { return p.id }
func (p *Peer) Open() bool   { return p.open.Load() }
func (p *Peer) Addr() string { return p.addr }

// enqueue hands a frame to the writer without blocking. A full buffer
// drops the frame.
func (p *Peer) enqueue(b []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.send <- b:
		return true
	default:
		FramesDropped.WithLabelValues("buffer_full").Inc()
		p.hub.log.Warn("peer send buffer full, frame dropped", "peer", p.id)
		return false
	}
}

// Close stops both pumps. Safe to call more than once.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.open.Store(false)
		close(p.done)
	})
}

func (p *Peer) readPump() {
	defer func() {
		p.Close()
		_ = p.conn.Close()
		p.hub.detach(p)
	}()

	p.conn.SetReadLimit(maxFrameSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.hub.log.Warn("peer read error", "peer", p.id, "error", err)
			}
			return
		}
		env, err := Decode(msg)
		if err != nil {
			FramesDropped.WithLabelValues("malformed").Inc()
			p.hub.log.Warn("malformed frame", "peer", p.id, "error", err)
			continue
		}

		if !p.Open() {
			if env.Type != MsgHello {
				FramesDropped.WithLabelValues("before_hello").Inc()
				continue
			}
			hello, err := DecodePayload[HelloPayload](env)
			if err != nil || !p.hub.register(p, hello.PeerID) {
				return
			}
			continue
		}

		if reserved[env.Type] {
			FramesDropped.WithLabelValues("reserved").Inc()
			p.hub.log.Warn("reserved frame from peer dropped", "peer", p.id, "type", env.Type)
			continue
		}
		FramesReceived.WithLabelValues(typeLabel(env.Type)).Inc()
		p.hub.dispatch(p.id, env)
	}
}

func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case <-p.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				p.hub.log.Warn("peer write error", "error", err)
				p.Close()
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.Close()
				return
			}
		}
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"
	"github.com/HeJian358/BeastyBarOnline/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = 50 * time.Second
)

// Events streams session updates to a local UI over a websocket. The
// first message is the current state.
func (h *Handler) Events(allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
	return func(c *gin.Context) {
		updates, unsubscribe := h.Node.Subscribe()
		defer unsubscribe()

		snap, err := h.Node.Snapshot(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		lobby, err := h.Node.Lobby(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("ui events upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		// reader: only watches for close and pongs
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			conn.SetReadDeadline(time.Now().Add(eventsPongWait))
			conn.SetPongHandler(func(string) error {
				conn.SetReadDeadline(time.Now().Add(eventsPongWait))
				return nil
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		write := func(u session.Update) error {
			conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			return conn.WriteJSON(u)
		}
		if err := write(session.Update{Snapshot: snap, Lobby: lobby}); err != nil {
			return
		}

		ticker := time.NewTicker(eventsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case u, ok := <-updates:
				if !ok {
					conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "node stopped"))
					return
				}
				if err := write(u); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

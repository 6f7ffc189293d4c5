package ws

import (
	"net/http"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ServePeers upgrades inbound peer connections and hands them to the hub.
// An empty allowedOrigin accepts any origin.
func ServePeers(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("peer upgrade failed", "error", err)
			return
		}
		hub.Accept(conn)
	}
}

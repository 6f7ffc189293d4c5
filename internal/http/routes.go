package http

import (
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/config"
	"github.com/HeJian358/BeastyBarOnline/internal/http/handlers"
	"github.com/HeJian358/BeastyBarOnline/internal/http/middleware"
	"github.com/HeJian358/BeastyBarOnline/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP surface needs from the running node.
type Deps struct {
	Node    handlers.Node
	Hub     *ws.Hub
	History handlers.History // nil when the archive is disabled
	DB      *pgxpool.Pool    // nil when the archive is disabled
	Version string
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	h := handlers.NewHandler(d.Node, d.History)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Hub.PeerIDs, d.Version)

	r.Use(middleware.RequestLogger(), middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Peer mesh
	r.GET("/ws",
		middleware.SimpleRateLimit(cfg.PeerConnectLimit, time.Minute),
		ws.ServePeers(d.Hub, cfg.AllowedOrigin),
	)

	// Local UI
	r.GET("/ui/events", h.Events(cfg.AllowedOrigin))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	api.GET("/state", h.State)
	api.GET("/lobby", h.Lobby)

	// Lobby
	api.POST("/ready", h.Ready)
	api.POST("/start", h.Start)
	api.POST("/connect", h.Connect)

	// Play
	api.POST("/select", h.Select)
	api.POST("/target", h.Target)
	api.POST("/jump", h.Jump)
	api.POST("/cancel", h.Cancel)

	// Archive
	api.GET("/history", h.RecentResults)
	api.GET("/history/:match", h.MatchSettlements)
}

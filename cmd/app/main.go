package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/config"
	"github.com/HeJian358/BeastyBarOnline/internal/db"
	httpServer "github.com/HeJian358/BeastyBarOnline/internal/http"
	"github.com/HeJian358/BeastyBarOnline/internal/http/handlers"
	"github.com/HeJian358/BeastyBarOnline/internal/http/middleware"
	"github.com/HeJian358/BeastyBarOnline/internal/logger"
	"github.com/HeJian358/BeastyBarOnline/internal/repository"
	"github.com/HeJian358/BeastyBarOnline/internal/session"
	"github.com/HeJian358/BeastyBarOnline/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

const (
	dialAttempts = 10
	dialBackoff  = time.Second
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	logger.Info("starting node", "peer", cfg.PeerID, "nick", cfg.Nickname, "host", cfg.Host, "version", version)

	dbPool := db.Connect(cfg.DatabaseURL)
	var (
		archive session.Archive
		history handlers.History
	)
	if dbPool != nil {
		defer dbPool.Close()
		repo := repository.NewMatchRepository(dbPool)
		archive, history = repo, repo
	}

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	hub := ws.NewHub(cfg.PeerID, ws.NewFloodGuard(cfg.FloodWindow, cfg.FloodTableMax))
	sess := session.New(hub, session.Options{
		Nickname: cfg.Nickname,
		Host:     cfg.Host,
		DeckID:   cfg.DeckID,
		Archive:  archive,
	})
	hub.Handle(sess.Deliver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessDone := make(chan struct{})
	go func() {
		defer close(sessDone)
		_ = sess.Run(ctx)
	}()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS for a UI served from another origin
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, cfg, httpServer.Deps{
		Node:    sess,
		Hub:     hub,
		History: history,
		DB:      dbPool,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	for _, addr := range cfg.Peers {
		go dialWithRetry(ctx, hub, addr)
	}

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	hub.Close()
	<-sessDone

	logger.Info("server exited")
}

// dialWithRetry keeps trying a configured peer that may not be up yet.
func dialWithRetry(ctx context.Context, hub *ws.Hub, addr string) {
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		dctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := hub.Dial(dctx, addr)
		cancel()
		if err == nil {
			return
		}
		logger.Warn("peer dial failed", "addr", addr, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(dialBackoff * time.Duration(attempt)):
		}
	}
	logger.Error("giving up on peer", "addr", addr)
}

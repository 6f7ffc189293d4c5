package db

import (
	"context"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the archive pool. An empty dsn disables the archive and
// returns nil.
func Connect(dsn string) *pgxpool.Pool {
	if dsn == "" {
		logger.Info("DATABASE_URL not set, match archive disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Fatal("invalid DATABASE_URL", "error", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool
}

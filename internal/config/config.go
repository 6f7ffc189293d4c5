package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	PeerID        string
	Nickname      string
	Peers         []string // ws URLs dialed on startup
	Host          bool
	DeckID        string
	AllowedOrigin string

	// optional backends
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// limits
	APIRateLimit     int
	APIRateWindow    time.Duration
	PeerConnectLimit int
	FloodWindow      time.Duration
	FloodTableMax    int

	LogLevel string
	LogJSON  bool
}

// Load reads .env (if any) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	peerID := os.Getenv("PEER_ID")
	if peerID == "" {
		peerID = uuid.NewString()
	}

	var peers []string
	for _, p := range strings.Split(os.Getenv("PEERS"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			peers = append(peers, p)
		}
	}

	// a node that joins somebody is a guest unless told otherwise
	host := len(peers) == 0
	if v := os.Getenv("HOST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Fatal("HOST must be a boolean", "value", v)
		}
		host = b
	}

	return &Config{
		AppPort:          envString("APP_PORT", "8080"),
		PeerID:           peerID,
		Nickname:         envString("NICKNAME", "Player"),
		Peers:            peers,
		Host:             host,
		DeckID:           envString("DECK_ID", "set1"),
		AllowedOrigin:    os.Getenv("ALLOWED_ORIGIN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		APIRateLimit:     envInt("API_RATE_LIMIT", 60),
		APIRateWindow:    time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		PeerConnectLimit: envInt("PEER_CONNECT_LIMIT", 20),
		FloodWindow:      time.Duration(envInt("FLOOD_WINDOW_MS", 1000)) * time.Millisecond,
		FloodTableMax:    envInt("FLOOD_TABLE_MAX", 100),
		LogLevel:         envString("LOG_LEVEL", "info"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt falls back to def for missing, malformed or negative values.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logger.Warn("ignoring bad numeric setting", "key", key, "value", v)
		return def
	}
	return n
}

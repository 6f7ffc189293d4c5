package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "PEER_ID", "NICKNAME", "PEERS", "HOST", "DECK_ID", "API_RATE_LIMIT", "FLOOD_WINDOW_MS", "FLOOD_TABLE_MAX"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.AppPort != "8080" || cfg.Nickname != "Player" || cfg.DeckID != "set1" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PeerID == "" {
		t.Fatal("a peer id must be generated")
	}
	if !cfg.Host || len(cfg.Peers) != 0 {
		t.Fatalf("a node without peers hosts: host=%v peers=%v", cfg.Host, cfg.Peers)
	}
	if cfg.FloodWindow != time.Second || cfg.FloodTableMax != 100 {
		t.Fatalf("flood guard defaults: %v %d", cfg.FloodWindow, cfg.FloodTableMax)
	}
	if cfg.APIRateLimit != 60 || cfg.APIRateWindow != time.Minute {
		t.Fatalf("rate limit defaults: %d %v", cfg.APIRateLimit, cfg.APIRateWindow)
	}
}

func TestLoadPeers(t *testing.T) {
	t.Setenv("PEER_ID", "node-b")
	t.Setenv("PEERS", " ws://a:8080/ws , ,ws://c:8080/ws")
	t.Setenv("HOST", "")
	t.Setenv("FLOOD_WINDOW_MS", "250")
	t.Setenv("API_RATE_LIMIT", "nope")

	cfg := Load()
	if cfg.PeerID != "node-b" {
		t.Fatalf("peer id = %q", cfg.PeerID)
	}
	if len(cfg.Peers) != 2 || cfg.Peers[0] != "ws://a:8080/ws" || cfg.Peers[1] != "ws://c:8080/ws" {
		t.Fatalf("peers = %q", cfg.Peers)
	}
	if cfg.Host {
		t.Fatal("a node with peers defaults to guest")
	}
	if cfg.FloodWindow != 250*time.Millisecond {
		t.Fatalf("flood window = %v", cfg.FloodWindow)
	}
	if cfg.APIRateLimit != 60 {
		t.Fatalf("malformed value should fall back, got %d", cfg.APIRateLimit)
	}

	t.Setenv("HOST", "true")
	if !Load().Host {
		t.Fatal("HOST overrides the default")
	}
}

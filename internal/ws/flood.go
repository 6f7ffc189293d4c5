package ws

import (
	"sync"
	"time"
)

const (
	DefaultFloodWindow = time.Second
	DefaultFloodLimit  = 100
)

// FloodGuard drops repeats of floodable frames. A frame is a repeat when
// an identical type+payload fingerprint was accepted less than window
// ago. The table is cleared wholesale once it holds more than limit
// fingerprints.
type FloodGuard struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	seen   map[string]time.Time
	now    func() time.Time
}

func NewFloodGuard(window time.Duration, limit int) *FloodGuard {
	if window <= 0 {
		window = DefaultFloodWindow
	}
	if limit <= 0 {
		limit = DefaultFloodLimit
	}
	return &FloodGuard{
		window: window,
		limit:  limit,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

func (g *FloodGuard) IsDuplicate(env Envelope) bool {
	if !floodable[env.Type] {
		return false
	}
	fp := env.Type + string(env.Payload)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.seen[fp]; ok && now.Sub(last) < g.window {
		return true
	}
	g.seen[fp] = now
	if len(g.seen) > g.limit {
		clear(g.seen)
	}
	return false
}

// Len returns the number of remembered fingerprints.
func (g *FloodGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

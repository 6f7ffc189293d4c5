package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	start time.Time
	count int
}

// ipLimiter is an in-memory fixed window per client IP.
type ipLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	clients map[string]*window
	now     func() time.Time
}

func newIPLimiter(max int, w time.Duration) *ipLimiter {
	return &ipLimiter{max: max, window: w, clients: make(map[string]*window), now: time.Now}
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[ip]
	if !ok || now.Sub(cw.start) > l.window {
		// drop expired windows so the table does not grow with every address seen
		if len(l.clients) > 1024 {
			for k, v := range l.clients {
				if now.Sub(v.start) > l.window {
					delete(l.clients, k)
				}
			}
		}
		l.clients[ip] = &window{start: now, count: 1}
		return true
	}
	cw.count++
	return cw.count <= l.max
}

// SimpleRateLimit blocks clients that send more than maxRequests per
// window. State is local to the returned handler. Used on the peer
// endpoint where each request is a connection attempt.
func SimpleRateLimit(maxRequests int, w time.Duration) gin.HandlerFunc {
	l := newIPLimiter(maxRequests, w)
	return func(c *gin.Context) {
		if maxRequests <= 0 {
			c.Next()
			return
		}
		if !l.allow(c.ClientIP()) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

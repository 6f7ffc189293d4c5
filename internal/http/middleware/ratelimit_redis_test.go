package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSimpleRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", SimpleRateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: %d", i, code)
		}
	}
	if code := do("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: %d", code)
	}
	if code := do("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other ip: %d", code)
	}
}

func TestIPLimiterWindowResets(t *testing.T) {
	l := newIPLimiter(1, time.Second)
	now := time.Unix(100, 0)
	l.now = func() time.Time { return now }

	if !l.allow("a") || l.allow("a") {
		t.Fatal("second request inside the window must be refused")
	}
	now = now.Add(2 * time.Second)
	if !l.allow("a") {
		t.Fatal("new window must allow again")
	}
}

func TestRedisRateLimitFailsOpenWithoutRedis(t *testing.T) {
	saved := redisClient
	redisClient = nil
	defer func() { redisClient = saved }()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RedisRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
	if err := RedisPing(t.Context()); err != ErrRedisDisabled {
		t.Fatalf("ping without redis: %v", err)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			db = n
		}
	}

	if !InitRedisRateLimiter(addr, pass, db) {
		t.Fatal("redis not reachable")
	}

	// small window for test
	w := 2 * time.Second
	max := 2

	r := gin.New()
	r.GET("/test", RedisRateLimit(max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{}

	for i := 0; i < max; i++ {
		req, _ := http.NewRequest("GET", srv.URL+"/test", nil)
		res, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	req, _ := http.NewRequest("GET", srv.URL+"/test", nil)
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}

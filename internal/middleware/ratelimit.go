package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	window  time.Duration
	limit   int
	now     func() time.Time
}

// RateLimiter is a simple in-memory middleware that limits the number of requests per client IP.
//
// Behavior:
//   - Allows up to limit requests per window for each client IP.
//   - A limit <= 0 disables the middleware.
//   - If the limit is exceeded, returns HTTP 429 Too Many Requests with an ErrorResponse.
//
// State is per process; every replica counts on its own.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter(120, time.Minute))
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	rl := &rateLimiter{
		clients: make(map[string]*client),
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
	return rl.handle
}

func (rl *rateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[ip]
	if !ok || now.Sub(cl.windowStart) > rl.window {
		rl.sweep(now)
		rl.clients[ip] = &client{windowStart: now, count: 1}
		return true
	}
	cl.count++
	return cl.count <= rl.limit
}

// sweep drops clients whose window has expired. Callers hold rl.mu.
func (rl *rateLimiter) sweep(now time.Time) {
	for ip, cl := range rl.clients {
		if now.Sub(cl.windowStart) > rl.window {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) handle(c *gin.Context) {
	if !rl.allow(c.ClientIP()) {
		AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
		return
	}
	c.Next()
}

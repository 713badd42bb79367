package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// FixedWindowLimiter caps requests per client address within a fixed
// window. The counter resets at the window boundary; increments are
// increment-and-compare under the lock so parallel requests cannot race
// past the threshold. State is per process, not shared across instances.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(max int, period time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
	}
}

// Allow counts one request for the key and reports whether it is within
// the window's budget.
func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= l.max
}

// RateLimit guards an LLM-backed endpoint with a fixed-window counter
// keyed by client address.
func RateLimit(limiter *FixedWindowLimiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		if !limiter.Allow(ip) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Next()
	}
}

// authLimiter stores token-bucket limiters per IP address for the public
// auth endpoints, smoothing bursts rather than counting a window.
type authLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func (al *authLimiter) get(ip string) *rate.Limiter {
	al.mu.Lock()
	defer al.mu.Unlock()

	lim, ok := al.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(al.rate, al.burst)
		al.limiters[ip] = lim
	}
	return lim
}

// AuthRateLimit limits the register/login/guest/google endpoints per IP.
// Allows normal usage without hitting the limit while blunting
// credential-stuffing bursts.
func AuthRateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	al := &authLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		if !al.get(ip).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFixedWindowLimiter_Allow(t *testing.T) {
	l := NewFixedWindowLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d should pass", i)
	}
	assert.False(t, l.Allow("1.2.3.4"))

	// A different key has its own budget.
	assert.True(t, l.Allow("5.6.7.8"))
}

func TestFixedWindowLimiter_WindowReset(t *testing.T) {
	now := time.Now()
	l := NewFixedWindowLimiter(1, time.Hour)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	// Just before the boundary the counter still applies.
	now = now.Add(time.Hour - time.Second)
	assert.False(t, l.Allow("1.2.3.4"))

	// At the boundary the window resets.
	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
}

func TestRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ask", RateLimit(NewFixedWindowLimiter(2, time.Hour), "Too many questions"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ask", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAuthRateLimit_BlocksBursts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", AuthRateLimit(60, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var blocked int
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			blocked++
		}
	}

	assert.Greater(t, blocked, 0)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(time.Hour, 2, 1)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "third request within the window should be rejected")
	assert.True(t, l.Allow("b"), "other keys have their own bucket")
}

func TestLimiterConcurrency(t *testing.T) {
	l := NewLimiter(time.Hour, 10, 1)
	release, ok := l.TryAcquire("a")
	require.True(t, ok)
	_, ok = l.TryAcquire("a")
	assert.False(t, ok)
	release()
	release2, ok := l.TryAcquire("a")
	require.True(t, ok)
	release2()
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewLimiter(time.Hour, 1, 1)
	r := gin.New()
	r.POST("/analyze", l.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestLimiterSweepDropsIdleKeys(t *testing.T) {
	l := NewLimiter(time.Minute, 1, 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("ip:10.0.0.1"))
	release, ok := l.TryAcquire("ip:10.0.0.2")
	require.True(t, ok)
	assert.Equal(t, 2, l.Len())

	clock = clock.Add(30 * time.Second)
	l.Sweep()
	assert.Equal(t, 2, l.Len(), "keys seen within the window stay")

	clock = clock.Add(time.Minute)
	l.Sweep()
	assert.Equal(t, 1, l.Len(), "the key with a request in flight stays")

	release()
	l.Sweep()
	assert.Equal(t, 0, l.Len())

	// a dropped key starts over with a full bucket
	assert.True(t, l.Allow("ip:10.0.0.1"))
}

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Limiter hands out a token bucket per requester key and caps how many
// requests one key may run at once.
type Limiter struct {
	window   time.Duration
	capacity int
	conc     int
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

type limiterEntry struct {
	bucket *rate.Limiter
	slots  chan struct{}
	seen   time.Time
}

// NewLimiter allows capacity requests per window and conc in flight per key.
func NewLimiter(window time.Duration, capacity, conc int) *Limiter {
	if window <= 0 {
		window = 10 * time.Second
	}
	if capacity <= 0 {
		capacity = 5
	}
	if conc <= 0 {
		conc = 2
	}
	return &Limiter{
		window:   window,
		capacity: capacity,
		conc:     conc,
		now:      time.Now,
		entries:  map[string]*limiterEntry{},
	}
}

func clientIP(c *gin.Context) string {
	ip := strings.TrimSpace(c.ClientIP())
	if ip == "" {
		host, _, _ := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
		ip = host
	}
	return ip
}

func requesterKey(c *gin.Context) string {
	if uid, ok := CurrentUser(c); ok {
		return "user:" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + clientIP(c)
}

func (l *Limiter) entry(key string) *limiterEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	if e == nil {
		e = &limiterEntry{
			bucket: rate.NewLimiter(rate.Every(l.window/time.Duration(l.capacity)), l.capacity),
			slots:  make(chan struct{}, l.conc),
		}
		l.entries[key] = e
	}
	e.seen = l.now()
	return e
}

// Sweep drops keys idle for a full window with nothing in flight. Their
// buckets have refilled by then, so dropping them changes no decision.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	for key, e := range l.entries {
		if e.seen.Before(cutoff) && len(e.slots) == 0 {
			delete(l.entries, key)
		}
	}
}

// Len reports how many keys are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Janitor sweeps on every tick until stop is closed.
func (l *Limiter) Janitor(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.Sweep()
		case <-stop:
			return
		}
	}
}

// Allow consumes one request from key's bucket.
func (l *Limiter) Allow(key string) bool {
	return l.entry(key).bucket.Allow()
}

// TryAcquire takes one in-flight slot for key without blocking.
func (l *Limiter) TryAcquire(key string) (release func(), ok bool) {
	s := l.entry(key).slots
	select {
	case s <- struct{}{}:
		return func() { <-s }, true
	default:
		return nil, false
	}
}

// RateLimit rejects requesters that exceed their budget or concurrency cap.
func (l *Limiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := requesterKey(c)
		if !l.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "too many requests"})
			return
		}
		release, ok := l.TryAcquire(key)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "too many concurrent requests"})
			return
		}
		defer release()
		c.Next()
	}
}

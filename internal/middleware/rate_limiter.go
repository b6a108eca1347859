package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sweepInterval = 5 * time.Minute

// window counts hits from one client until end.
type window struct {
	hits int
	end  time.Time
}

// windowLimiter is a fixed-window per-IP counter. Expired windows are swept
// periodically so idle clients do not accumulate.
type windowLimiter struct {
	name   string
	limit  int
	length time.Duration

	mu      sync.Mutex
	clients map[string]*window
	sweep   sync.Once
}

func newWindowLimiter(name string, limit int, length time.Duration) *windowLimiter {
	return &windowLimiter{name: name, limit: limit, length: length, clients: map[string]*window{}}
}

// allow records a hit for key and reports whether it is within the limit,
// along with when the current window closes.
func (l *windowLimiter) allow(key string, now time.Time) (bool, time.Time) {
	l.sweep.Do(func() { go l.sweepLoop() })

	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.clients[key]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.length)}
		l.clients[key] = w
	}
	w.hits++
	return w.hits <= l.limit, w.end
}

func (l *windowLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		l.mu.Lock()
		purged := 0
		for key, w := range l.clients {
			if now.After(w.end) {
				delete(l.clients, key)
				purged++
			}
		}
		remaining := len(l.clients)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Str("limiter", l.name).
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter swept")
		}
	}
}

func (l *windowLimiter) handler(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, end := l.allow(c.ClientIP(), time.Now())
		if !ok {
			retry := int(time.Until(end).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.WithCode("rate_limited", message))
			return
		}
		c.Next()
	}
}

var loginLimiter = newWindowLimiter("login", 20, time.Minute)

// LoginRateLimiter allows 20 login or registration attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return loginLimiter.handler("too many login attempts, try again in a minute")
}

// RateLimiter caps every client IP at limit requests per window.
func RateLimiter(limit int, length time.Duration) gin.HandlerFunc {
	return newWindowLimiter("api", limit, length).handler("too many requests, slow down")
}

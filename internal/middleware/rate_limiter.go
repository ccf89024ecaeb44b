package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rmitchellscott/hass-render/internal/logging"
)

// ClientRateLimiter enforces a per-client token bucket on image endpoints.
type ClientRateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	clients map[string]*clientLimit
	mutex   sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

type clientLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter allows perMinute requests per client with the given
// burst. Entries idle for ten minutes are dropped by a background routine
// until Stop is called.
func NewClientRateLimiter(perMinute, burst int) *ClientRateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &ClientRateLimiter{
		limit:   rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:   burst,
		idle:    10 * time.Minute,
		clients: make(map[string]*clientLimit),
		stop:    make(chan struct{}),
	}

	go rl.cleanupRoutine(time.Minute)

	return rl
}

// RateLimit is a middleware that rejects clients over their budget with 429.
func (rl *ClientRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := rl.limiterFor(key, time.Now())

		if !limiter.Allow() {
			retry := time.Duration(float64(time.Second) / float64(rl.limit))
			logging.WarnWithComponent(logging.ComponentHTTP, "Rate limit exceeded",
				"ip", key, "path", c.Request.URL.Path)
			c.Header("Retry-After", strconv.Itoa(max(int(retry.Seconds()), 1)))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *ClientRateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimit{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Stop ends the cleanup routine.
func (rl *ClientRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *ClientRateLimiter) cleanupRoutine(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

// cleanup removes clients not seen within the idle window.
func (rl *ClientRateLimiter) cleanup(now time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) >= rl.idle {
			delete(rl.clients, key)
		}
	}
}

func (rl *ClientRateLimiter) size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.clients)
}

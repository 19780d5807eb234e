package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"dropit/internal/metrics"
	"dropit/internal/transport/http/response"
)

const (
	limiterIdleTTL = 10 * time.Minute
	maxClients     = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	lastScan time.Time

	maxClients int
}

func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,

		maxClients: maxClients,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastScan) > limiterIdleTTL || len(l.clients) >= l.maxClients {
		l.sweep(now)
	}

	client, ok := l.clients[ip]
	if !ok {
		// Table full of active clients: refuse newcomers until entries expire.
		if len(l.clients) >= l.maxClients {
			return false
		}
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.Allow()
}

func (l *IPRateLimiter) sweep(now time.Time) {
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastScan = now
}

func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			metrics.LoginAttempts.WithLabelValues("limited").Inc()
			response.Abort(c, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}
		c.Next()
	}
}

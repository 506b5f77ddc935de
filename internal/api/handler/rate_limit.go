package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL - скільки тримати лімітер IP без запитів.
const limiterIdleTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters тримає по одному лімітеру на IP і прибирає ті, що простоюють.
type ipLimiters struct {
	mu        sync.Mutex
	rps       int
	ttl       time.Duration
	now       func() time.Time
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newIPLimiters(rps int, ttl time.Duration, now func() time.Time) *ipLimiters {
	return &ipLimiters{
		rps:       rps,
		ttl:       ttl,
		now:       now,
		visitors:  make(map[string]*visitor),
		lastSweep: now(),
	}
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) >= l.ttl {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.rps), l.rps)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimitMiddleware limits each client IP to rps requests per second.
func (h *Handler) RateLimitMiddleware(rps int) gin.HandlerFunc {
	return h.rateLimit(newIPLimiters(rps, limiterIdleTTL, time.Now))
}

func (h *Handler) rateLimit(limiters *ipLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
				"code":    "error.rate_limited",
				"message": h.message(c, "error.rate_limited"),
			}})
			return
		}
		c.Next()
	}
}

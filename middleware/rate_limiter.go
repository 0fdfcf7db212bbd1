package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters hands out one token bucket per client address and forgets
// addresses that have been quiet for limiterIdleTTL.
type ipLimiters struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

func newIPLimiters(perMin int) *ipLimiters {
	if perMin <= 0 {
		perMin = 100
	}
	return &ipLimiters{
		visitors: make(map[string]*visitor),
		every:    rate.Every(time.Minute / time.Duration(perMin)),
		burst:    perMin,
	}
}

func (l *ipLimiters) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimitMiddleware limits each client address to perMin requests per minute.
func RateLimitMiddleware(perMin int, logger *zap.Logger) gin.HandlerFunc {
	limiters := newIPLimiters(perMin)
	return func(c *gin.Context) {
		ip := clientIP(c)
		if !limiters.allow(ip, time.Now()) {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

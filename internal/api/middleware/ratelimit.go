package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/photogram/pkg/response"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 按客户端 IP 的令牌桶限流
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idle     time.Duration
	swept    time.Time
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &IPRateLimiter{visitors: make(map[string]*visitor), rps: rate.Limit(rps), burst: burst, idle: 10 * time.Minute}
}

func (l *IPRateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.sweep(now)
	return v.limiter
}

// sweep 每个 idle 周期至多清理一次不活跃的 IP
func (l *IPRateLimiter) sweep(now time.Time) {
	if l.swept.IsZero() {
		l.swept = now
		return
	}
	if now.Sub(l.swept) < l.idle {
		return
	}
	l.swept = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, k)
		}
	}
}

// Middleware 超出速率返回 429
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP(), time.Now()).Allow() {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}

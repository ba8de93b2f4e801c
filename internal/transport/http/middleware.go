package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/time/rate"
)

const principalKey = "principalID"

func (s *Server) requirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.verifier.PrincipalID(c.GetHeader("Authorization"))
		if err != nil || id == "" {
			s.log.Info("unauthorized request", slog.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}
		c.Set(principalKey, id)
		c.Next()
	}
}

func principal(c *gin.Context) string {
	return c.GetString(principalKey)
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(
			"request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// requestTimeout bounds the request context when the client did not bring a deadline.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); ok {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// limiterIdleTTL is how long a client's limiter survives without requests. A limiter idle
// for a full minute has refilled its burst, so dropping it is indistinguishable from keeping it.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	*rate.Limiter
	lastSeen atomic.Int64
}

type rateLimiter struct {
	limiters  *xsync.MapOf[string, *clientLimiter]
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
	log       *slog.Logger
}

// newRateLimiter allows perMinute requests per client IP, with the whole minute available as burst.
func newRateLimiter(perMinute int, log *slog.Logger) *rateLimiter {
	rl := &rateLimiter{
		limiters: xsync.NewMapOf[string, *clientLimiter](),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idleTTL:  limiterIdleTTL,
		now:      time.Now,
		log:      log,
	}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

func (rl *rateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l, _ := rl.limiters.LoadOrCompute(ip, func() *clientLimiter {
		return &clientLimiter{Limiter: rate.NewLimiter(rl.limit, rl.burst)}
	})
	l.lastSeen.Store(now.UnixNano())
	return l.Limiter
}

// maybeEvict runs evictIdle at most once per idleTTL; concurrent callers race on the CAS and one wins.
func (rl *rateLimiter) maybeEvict(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(rl.idleTTL) {
		return
	}
	if !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	if n := rl.evictIdle(now); n > 0 {
		rl.log.Debug("evicted idle rate limiters", slog.Int("count", n), slog.Int("remaining", rl.limiters.Size()))
	}
}

func (rl *rateLimiter) evictIdle(now time.Time) int {
	cutoff := now.Add(-rl.idleTTL).UnixNano()
	evicted := 0
	rl.limiters.Range(func(ip string, l *clientLimiter) bool {
		if l.lastSeen.Load() >= cutoff {
			return true
		}
		rl.limiters.Compute(ip, func(cur *clientLimiter, loaded bool) (*clientLimiter, bool) {
			if !loaded || cur.lastSeen.Load() >= cutoff {
				return cur, !loaded
			}
			evicted++
			return nil, true
		})
		return true
	})
	return evicted
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := rl.now()
		allowed := rl.get(ip, now).Allow()
		rl.maybeEvict(now)
		if !allowed {
			rl.log.Warn("rate limit exceeded", slog.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests. Try again later."})
			return
		}
		c.Next()
	}
}

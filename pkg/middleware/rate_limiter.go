package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiterConfig configures the per-IP limiter.
//
// Rate uses the limiter format, e.g. "100-M", "10-S".
// SkipPaths are matched by prefix; health and metrics probes should be here.
type RateLimiterConfig struct {
	Rate      string   `json:"rate"`
	SkipPaths []string `json:"skip_paths"`
}

// RateLimiter wraps a limiter instance with an in-memory store. The store is
// process-local; this service runs as a single instance.
type RateLimiter struct {
	cfg RateLimiterConfig
	lim *limiter.Limiter
}

// NewRateLimiter builds a limiter from the configured rate. A malformed rate
// falls back to 10 requests per second.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		rate = limiter.Rate{Period: time.Second, Limit: 10}
	}
	return &RateLimiter{cfg: cfg, lim: limiter.New(memory.NewStore(), rate)}
}

// Middleware returns the gin middleware enforcing the limit per client IP.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.skipped(c.Request.URL.Path) {
			c.Next()
			return
		}

		lctx, err := l.lim.Get(c, "ip:"+c.ClientIP())
		if err != nil {
			// Fail open: a limiter store error must not take the API down.
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		if lctx.Reached {
			retry := int(time.Until(time.Unix(lctx.Reset, 0)).Seconds())
			if retry < 0 {
				retry = 0
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) skipped(path string) bool {
	for _, pref := range l.cfg.SkipPaths {
		if pref != "" && strings.HasPrefix(path, pref) {
			return true
		}
	}
	return false
}

package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qtremors/amanzon/pkg/config"
	"github.com/qtremors/amanzon/pkg/ratelimit"
)

// PathRule is a fixed-window style limit applied to POSTs on a single path.
type PathRule struct {
	Path   string
	Rate   int
	Period time.Duration
}

// DefaultPathRules mirrors the limits on the sensitive auth endpoints:
// password reset 3 per 10 minutes, login and register 5 per minute, per IP.
func DefaultPathRules() []PathRule {
	return []PathRule{
		{Path: "/api/v1/auth/password-reset", Rate: 3, Period: 10 * time.Minute},
		{Path: "/api/v1/auth/login", Rate: 5, Period: time.Minute},
		{Path: "/api/v1/auth/register", Rate: 5, Period: time.Minute},
	}
}

// RateLimit creates a Gin middleware limiting POST requests per IP and path.
func RateLimit(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig, rules []PathRule) gin.HandlerFunc {
	byPath := make(map[string]PathRule, len(rules))
	for _, r := range rules {
		byPath[r.Path] = r
	}

	return func(c *gin.Context) {
		if !cfg.Enabled || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		rule, ok := byPath[c.Request.URL.Path]
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", rule.Path, c.ClientIP())
		limit := ratelimit.Limit{
			Rate:   rule.Rate,
			Period: rule.Period,
			Burst:  rule.Rate,
		}

		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			// Fail open if rate limiter fails
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(res.ResetAfter/time.Second), 10))

		if !res.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter/time.Second), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too Many Requests",
				"retry_after": res.RetryAfter.String(),
			})
			return
		}

		c.Next()
	}
}

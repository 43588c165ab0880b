package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"finview/internal/cache"
	apperrors "finview/internal/errors"
)

// RateLimit limits requests per client IP within scope. A nil limiter
// disables limiting.
func RateLimit(limiter cache.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			abortWithError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

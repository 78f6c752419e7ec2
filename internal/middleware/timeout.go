package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout caps how long a request context may live. Handlers still have to
// honor ctx cancellation for this to bite.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

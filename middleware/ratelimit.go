package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/services"
	"github.com/pawprint-social/moderation-api/utils"
)

// RateLimit guards a write-heavy endpoint with a per-actor window. The key
// is actor+action, so one abusive endpoint cannot burn another's budget.
// Store errors fail open: losing Redis must not take down submissions.
func RateLimit(store services.CounterStore, action string, policy services.RatePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := utils.GetUser(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		key := fmt.Sprintf("%d:%s", claims.UserID, action)
		result, err := store.Hit(key, policy)
		if err != nil {
			log.Printf("ratelimit: store error for %s: %v", action, err)
			c.Next()
			return
		}

		if !result.Allowed {
			services.CountRateLimitBlock(action)
			retryAfter := services.FormatRetryAfter(result.RetryAfter)
			c.Header("Retry-After", fmt.Sprintf("%d", int((result.RetryAfter+time.Second-1)/time.Second)))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Too many requests. Try again in %s.", retryAfter),
				"code":  services.ErrorCode(services.ErrRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/contextutil"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(contextutil.RequestIDHeader)
		if rid == "" {
			rid = contextutil.NewRequestID()
		}

		c.Set("request_id", rid)

		// Propagate to the standard context so service and repo layers
		// can read it without knowing about gin.
		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		c.Request = c.Request.WithContext(ctx)

		c.Header(contextutil.RequestIDHeader, rid)
		c.Next()
	}
}

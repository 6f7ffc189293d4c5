package middleware

import (
	"github.com/HeJian358/BeastyBarOnline/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger tags the request context with a logger carrying a request
// id, so handlers log through logger.FromContext.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		l := logger.With("request_id", id, "method", c.Request.Method, "path", c.Request.URL.Path, "remote", c.ClientIP())
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), l))
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestIDMiddleware adds a unique request ID to each request
// If X-Request-ID header is present, it will be used; otherwise a new UUID is generated
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestID returns the id set by RequestIDMiddleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

package middleware

import (
	"time"

	"poshts/internal/apperrors"
	"poshts/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinLoggerMiddleware logs HTTP requests with structured fields, replacing gin.Logger
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("client_ip", c.ClientIP()),
			logger.WithStatus(statusCode),
			zap.Int("response_size", c.Writer.Size()),
			zap.Duration("latency", time.Since(startTime)),
		}
		if requestID := RequestID(c); requestID != "" {
			fields = append(fields, logger.WithRequestID(requestID))
		}
		if user := CurrentUser(c); user != nil {
			fields = append(fields, logger.WithUserID(user.ID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// Determine log level based on status code
		switch {
		case statusCode >= 500:
			logger.Log.Error("HTTP request", fields...)
		case statusCode >= 400:
			logger.Log.Warn("HTTP request", fields...)
		default:
			logger.Log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns handler panics into a logged 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("Handler panicked",
			zap.Any("panic", recovered),
			logger.WithRequestID(RequestID(c)),
			zap.String("path", c.Request.URL.Path),
		)
		abortWithError(c, apperrors.Internal())
	})
}

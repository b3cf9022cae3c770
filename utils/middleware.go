package utils

import (
	"net/http"
	"time"

	"Abuze/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs method, path, status and latency for each request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// ErrorHandler turns unhandled gin errors into a generic 500 so internals
// never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			logger.Error("unhandled request error",
				"path", c.Request.URL.Path,
				"error", c.Errors.Last().Err,
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}

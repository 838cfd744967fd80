package middleware

import (
	"time"

	"github.com/drinkrate/drinkrate/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one line per request through the logger package.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := []any{c.GetString(RequestIDKey), c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		switch {
		case status >= 500:
			logger.Error(line...)
		case status >= 400:
			logger.Warning(line...)
		default:
			logger.Debug(line...)
		}
	}
}

// BasePath exposes the configured base path to handlers as "base_path".
func BasePath(basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("base_path", basePath)
		c.Next()
	}
}

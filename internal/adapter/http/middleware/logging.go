package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskhub/pkg/logger"
)

func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		current := GetCurrent(c)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", current.RequestID()),
		}

		if userID := current.UserID(); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		log.Ctx(c.Request.Context()).Info("HTTP Request", fields...)

		if log.LokiEnabled() {
			go log.Push(c.Request.Context(), zapcore.InfoLevel, "HTTP Request", fields)
		}
	}
}

package middleware

import (
	"net/http"
	"time"

	"fieldbook/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request with latency and recovers from panics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				logger.L().Error("panic recovered",
					zap.Any("panic", recovered),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()))

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"},
				})
				return
			}

			fields := []zap.Field{
				zap.Int("status", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Duration("latency", time.Since(start)),
			}
			if userID := c.GetInt64("user_id"); userID != 0 {
				fields = append(fields, zap.Int64("user_id", userID))
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				logger.L().Error("request failed", fields...)
			case c.Writer.Status() >= http.StatusBadRequest:
				logger.L().Warn("request rejected", fields...)
			default:
				logger.L().Info("request", fields...)
			}
		}()

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readyprobe/logger"
	"readyprobe/types"
	"readyprobe/utils"
)

// CORS allows browser dashboards to read the health endpoints
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestLogger logs one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError && c.Writer.Status() != http.StatusServiceUnavailable {
			logger.L().Error("HTTP request", fields...)
			return
		}
		logger.L().Debug("HTTP request", fields...)
	}
}

// Recovery turns handler panics into a 500 error body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error("Handler panicked | path=%s panic=%v", c.Request.URL.Path, rec)
		writeError(c, http.StatusInternalServerError, types.NewError("Internal server error", "server_error", "internal_error"))
	})
}

func writeError(c *gin.Context, status int, body types.ErrorResponse) {
	c.Data(status, "application/json", utils.MarshalToBytes(body))
	c.Abort()
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loggerKey = "logger"

// RequestLogger logs one structured line per request and stores a request-scoped
// logger in the context for handlers (see Logger)
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		reqLogger := logger.With(
			zap.String("method", c.Request.Method),
			zap.String("route", route),
		)
		c.Set(loggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID, err := GetUserID(c); err == nil {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request completed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}

// Logger returns the request-scoped logger, or the global zap logger outside RequestLogger
func Logger(c *gin.Context) *zap.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if logger, ok := value.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}

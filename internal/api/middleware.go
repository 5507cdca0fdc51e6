package api

import (
	"strconv"
	"time"

	commonerrors "web-assistant/internal/common/errors"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestIDMiddleware propagates or assigns an X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware writes one structured access log line per request.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		fields := map[string]interface{}{
			"status":    c.Writer.Status(),
			"method":    c.Request.Method,
			"path":      path,
			"clientIP":  c.ClientIP(),
			"latencyMs": time.Since(start).Milliseconds(),
			"requestID": c.GetString(requestIDKey),
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Info("request completed", fields)
		}
	}
}

// MetricsMiddleware counts requests by matched route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// RecoveryMiddleware turns a panic into the generic 500 body.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic while handling request", map[string]interface{}{
			"panic":     recovered,
			"path":      c.Request.URL.Path,
			"requestID": c.GetString(requestIDKey),
		})
		abortWithError(c, commonerrors.NewInternalError(nil))
	})
}

func abortWithError(c *gin.Context, err *commonerrors.StandardError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), gin.H{
		"error": err.Message,
		"code":  err.Code,
	})
}

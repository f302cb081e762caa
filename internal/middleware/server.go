package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fwork_backend/internal/logger"
	"fwork_backend/pkg/contextkeys"
)

// RequestIDMiddleware attaches a request id to the request context and
// echoes it back in the X-Request-ID header. An incoming header value
// is reused so ids survive proxy hops.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggingMiddleware writes one structured line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"status", status,
			"method", method,
			"path", path,
			"duration_ms", time.Since(start).Milliseconds(),
			"size_bytes", c.Writer.Size(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.CtxError(ctx, "HTTP request failed", fields...)
		case status >= 400:
			logger.CtxWarn(ctx, "HTTP request rejected", fields...)
		default:
			logger.CtxInfo(ctx, "HTTP request", fields...)
		}
	}
}

// DBMiddleware puts the gorm connection into the gin context so handlers
// can pass it to services. A transaction stored on the request context
// takes precedence, which is how tests inject a rollback-only tx.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	dbKey := string(contextkeys.DBContextKey)
	return func(c *gin.Context) {
		conn := db
		if txVal := c.Request.Context().Value(contextkeys.DBContextKey); txVal != nil {
			if tx, ok := txVal.(*gorm.DB); ok {
				conn = tx
			}
		}
		c.Set(dbKey, conn)
		c.Next()
	}
}

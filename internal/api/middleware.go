package api

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goaltracker/internal/logging"
)

// RequestIDMiddleware ensures every request has a correlation/request ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

// AccessLogMiddleware logs one line per request.
func AccessLogMiddleware(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infof("[request_id=%s] %s %s -> %d (%s)",
			c.GetString("request_id"), c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// SerializeMiddleware runs requests one at a time. The goal engine is a
// single-writer component and is not safe for concurrent use.
func SerializeMiddleware(mu *sync.Mutex) gin.HandlerFunc {
	return func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		c.Next()
	}
}

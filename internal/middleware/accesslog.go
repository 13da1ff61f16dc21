package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk-automation/pkg/response"
)

// AccessLog writes one structured line per request after the chain returns.
// 5xx answers log at Error and 4xx at Warn.
func (m Middleware) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		kv := []any{
			"http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client", clientKey(c.Request),
		}
		switch {
		case status >= http.StatusInternalServerError:
			m.l.Error(ctx, kv...)
		case status >= http.StatusBadRequest:
			m.l.Warn(ctx, kv...)
		default:
			m.l.Info(ctx, kv...)
		}
	}
}

// Recovery turns a handler panic into a logged 500 with the standard body.
func (m Middleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		m.l.Errorf(c.Request.Context(), "middleware.Recovery: panic on %s %s: %v",
			c.Request.Method, c.Request.URL.Path, recovered)
		response.InternalError(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"helpdesk-automation/pkg/log"
)

const HeaderRequestID = "X-Request-ID"

// Trace stores a request id in the request context for log correlation and
// echoes it back in the response.
func (m Middleware) Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(log.WithTraceID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

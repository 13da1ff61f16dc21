package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/pkg/response"
)

// writeError maps domain errors onto response codes. data is attached to
// conflict responses.
func (h *handler) writeError(c *gin.Context, err error, data any) {
	switch {
	case errors.Is(err, helpdesk.ErrThreadNotFound):
		response.NotFound(c, helpdesk.ErrThreadNotFound)
	case errors.Is(err, helpdesk.ErrInvalidState):
		response.Conflict(c, err, data)
	case errors.Is(err, helpdesk.ErrEmptyQuery),
		errors.Is(err, helpdesk.ErrEmptyThreadID),
		errors.Is(err, helpdesk.ErrEmptyResponse):
		response.Error(c, err, nil)
	default:
		h.l.Errorf(c.Request.Context(), "helpdesk.http: %v", err)
		response.InternalError(c, err)
	}
}

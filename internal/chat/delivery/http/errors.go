package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"helpdesk-automation/internal/chat"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/registry"
	"helpdesk-automation/pkg/response"
)

func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrChatNotFound):
		response.NotFound(c, chat.ErrChatNotFound)
	case errors.Is(err, chat.ErrEmptyIdentity),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, registry.ErrInvalidIdentity):
		response.Error(c, err, nil)
	case helpdesk.IsTransient(err):
		response.ServiceUnavailable(c, err)
	default:
		h.l.Errorf(c.Request.Context(), "chat.http: %v", err)
		response.InternalError(c, err)
	}
}

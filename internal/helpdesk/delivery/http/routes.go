package http

import (
	"github.com/gin-gonic/gin"

	"helpdesk-automation/internal/middleware"
)

// RegisterRoutes maps the thread endpoints onto rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	threads := rg.Group("/threads")
	{
		threads.POST("", mw.RateLimit(), h.SubmitQuery)
		threads.GET("/:id", h.GetState)
		threads.DELETE("/:id", h.DeleteThread)
		threads.POST("/:id/human-response", mw.RateLimit(), h.SubmitHumanResponse)
	}
}

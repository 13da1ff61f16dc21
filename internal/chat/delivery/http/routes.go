package http

import (
	"github.com/gin-gonic/gin"

	"helpdesk-automation/internal/middleware"
)

// RegisterRoutes maps the identity, chat and memory endpoints onto rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.GET("/identities", h.ListIdentities)

	identity := rg.Group("/identities/:identity")
	{
		identity.DELETE("", h.DeleteIdentity)
		identity.GET("/memories", h.Memories)

		identity.POST("/chats", h.CreateChat)
		identity.GET("/chats", h.ListChats)
		identity.GET("/chats/:chat_id", h.GetChat)
		identity.DELETE("/chats/:chat_id", h.DeleteChat)
		identity.POST("/chats/:chat_id/messages", mw.RateLimit(), h.SendMessage)
		identity.GET("/chats/:chat_id/messages", h.History)
	}
}

package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	chatHTTP "helpdesk-automation/internal/chat/delivery/http"
	helpdeskHTTP "helpdesk-automation/internal/helpdesk/delivery/http"
)

// setupHelpdeskDomain registers /api/v1/threads.
func (srv HTTPServer) setupHelpdeskDomain(ctx context.Context, api *gin.RouterGroup) {
	h := helpdeskHTTP.New(srv.l, srv.helpdeskUC)
	helpdeskHTTP.RegisterRoutes(api, h, srv.mw)
	srv.l.Infof(ctx, "Helpdesk domain registered")
}

// setupChatDomain registers /api/v1/identities.
func (srv HTTPServer) setupChatDomain(ctx context.Context, api *gin.RouterGroup) {
	h := chatHTTP.New(srv.l, srv.chatUC)
	chatHTTP.RegisterRoutes(api, h, srv.mw)
	srv.l.Infof(ctx, "Chat domain registered")
}

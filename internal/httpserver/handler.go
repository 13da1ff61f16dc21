package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"helpdesk-automation/pkg/response"
)

var errRouteNotFound = errors.New("route not found")

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()

	srv.gin.NoRoute(func(c *gin.Context) {
		response.NotFound(c, errRouteNotFound)
	})
}

// registerMiddlewares installs trace first so recovery and access lines
// carry the request id.
func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(srv.mw.Trace())
	srv.gin.Use(srv.mw.Recovery())
	srv.gin.Use(srv.mw.AccessLog())

	srv.l.Infof(context.Background(), "HTTP environment: %s", srv.environment)
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes under /api/v1.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()
	api := srv.gin.Group("/api/v1")

	srv.setupHelpdeskDomain(ctx, api)

	if srv.chatUC != nil {
		srv.setupChatDomain(ctx, api)
	} else {
		srv.l.Infof(ctx, "Chat usecase not configured, skipping chat routes")
	}
}

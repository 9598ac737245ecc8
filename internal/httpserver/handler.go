package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	if srv.mode == gin.DebugMode {
		srv.gin.Use(gin.Logger())
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	srv.gin.POST("/webhook/telegram", srv.telegramHandler.HandleWebhook)
	srv.l.Infof(ctx, "Telegram webhook route registered at POST /webhook/telegram")
}

package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
	"helperhub/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/ws", handler.GetWebSocketHandler().HandleWebSocket, authMiddleware.Authenticate)
}

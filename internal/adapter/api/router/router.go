package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
)

// Setup mounts every authenticated resource under /api.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	api := e.Group("/api", authMiddleware.Authenticate)

	SetupBookingRouter(api)
	SetupMessageRouter(api)
	SetupSupportRouter(api)
	SetupRatingRouter(api)
	SetupHelperRouter(api)
	SetupAdminRouter(api)
	SetupWebSocketRouter(e, authMiddleware)
	SetupHealthRouter(e)
}

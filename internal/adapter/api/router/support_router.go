package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/domain/entity"
)

func SetupSupportRouter(api *echo.Group) {
	supportHandler := handler.GetSupportHandler()
	adminOnly := middleware.RequireRole(entity.RoleAdmin)

	support := api.Group("/support")
	support.GET("/user", supportHandler.GetMySupportMessages)
	support.GET("/users", supportHandler.ListSupportUsers, adminOnly)
	support.GET("/admin/:userId", supportHandler.GetUserSupportMessages, adminOnly)
}

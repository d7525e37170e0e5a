package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/domain/entity"
)

func SetupAdminRouter(api *echo.Group) {
	adminHandler := handler.GetAdminHandler()

	admin := api.Group("/admin", middleware.RequireRole(entity.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/helpers", adminHandler.ListHelpers)
	admin.GET("/helpers/active", adminHandler.ListActiveHelpers)
	admin.GET("/bookings", adminHandler.ListBookings)
	admin.GET("/stats", adminHandler.GetStats)
	admin.DELETE("/user/:id", adminHandler.DeleteUser)
	admin.DELETE("/helper/:id", adminHandler.DeleteHelper)
}

package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/domain/entity"
)

func SetupHelperRouter(api *echo.Group) {
	helperHandler := handler.GetHelperHandler()
	helperOnly := middleware.RequireRole(entity.RoleHelper)

	helpers := api.Group("/helpers")
	helpers.GET("/category/:category", helperHandler.ListByCategory)
	helpers.PUT("/availability", helperHandler.ToggleAvailability, helperOnly)
	helpers.GET("/dashboard", helperHandler.GetDashboard, helperOnly)
}

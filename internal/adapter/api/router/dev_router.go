package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
)

func SetupDevRouter(e *echo.Echo, environment string) {
	if environment != "development" {
		return
	}
	devHandler := handler.GetDevHandler()

	e.POST("/_dev/token", devHandler.GenerateToken)
	e.POST("/_dev/users", devHandler.CreateUser)
	e.POST("/_dev/helpers", devHandler.CreateHelper)
}

package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
)

func SetupMessageRouter(api *echo.Group) {
	messageHandler := handler.GetMessageHandler()

	api.GET("/messages/:bookingId", messageHandler.ListBookingMessages)
	api.POST("/messages", messageHandler.SendMessage)
}

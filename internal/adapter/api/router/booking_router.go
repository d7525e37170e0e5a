package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/domain/entity"
)

func SetupBookingRouter(api *echo.Group) {
	bookingHandler := handler.GetBookingHandler()

	bookings := api.Group("/bookings")
	bookings.POST("", bookingHandler.CreateBooking, middleware.RequireRole(entity.RoleUser))
	bookings.GET("/user", bookingHandler.ListUserBookings, middleware.RequireRole(entity.RoleUser))
	bookings.GET("/helper", bookingHandler.ListHelperBookings, middleware.RequireRole(entity.RoleHelper))
	bookings.GET("/:id", bookingHandler.GetBooking)

	bookings.PUT("/accept/:id", bookingHandler.AcceptBooking, middleware.RequireRole(entity.RoleHelper))
	bookings.PUT("/reached/:id", bookingHandler.MarkReached, middleware.RequireRole(entity.RoleHelper))
	bookings.PUT("/complete/:id", bookingHandler.CompleteBooking, middleware.RequireRole(entity.RoleUser))
	bookings.PUT("/cancel/:id", bookingHandler.CancelBooking)
}

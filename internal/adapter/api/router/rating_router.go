package router

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/handler"
)

func SetupRatingRouter(api *echo.Group) {
	ratingHandler := handler.GetRatingHandler()

	api.POST("/ratings", ratingHandler.CreateRating)
	api.GET("/ratings/:id", ratingHandler.ListRatings)
}

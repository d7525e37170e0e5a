package handler

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/domain/entity"
	"helperhub/internal/usecase"
	"helperhub/pkg/errors"
	"helperhub/pkg/response"
)

type RatingHandler struct {
	ratingUseCase *usecase.RatingUseCase
}

func NewRatingHandler(ratingUseCase *usecase.RatingUseCase) *RatingHandler {
	return &RatingHandler{
		ratingUseCase: ratingUseCase,
	}
}

func (h *RatingHandler) CreateRating(c echo.Context) error {
	var input usecase.CreateRatingInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	rating, err := h.ratingUseCase.Create(c.Request().Context(), middleware.AccountFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, rating)
}

// ListRatings returns the ratings received by a user or helper. ?kind=User|Helper
// picks the side and defaults to Helper.
func (h *RatingHandler) ListRatings(c echo.Context) error {
	ratee := entity.HelperParty(c.Param("id"))
	switch kind := entity.PartyKind(c.QueryParam("kind")); kind {
	case "", entity.PartyHelper:
	case entity.PartyUser:
		ratee.Kind = entity.PartyUser
	default:
		return response.Error(c, errors.BadRequest("kind must be User or Helper", nil))
	}

	ratings, err := h.ratingUseCase.ListFor(c.Request().Context(), ratee)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ratings)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/usecase"
	"helperhub/pkg/response"
)

type HelperHandler struct {
	helperUseCase *usecase.HelperUseCase
}

func NewHelperHandler(helperUseCase *usecase.HelperUseCase) *HelperHandler {
	return &HelperHandler{
		helperUseCase: helperUseCase,
	}
}

func (h *HelperHandler) ListByCategory(c echo.Context) error {
	helpers, err := h.helperUseCase.ListAvailable(c.Request().Context(), c.Param("category"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, helpers)
}

func (h *HelperHandler) ToggleAvailability(c echo.Context) error {
	helper, err := h.helperUseCase.ToggleAvailability(c.Request().Context(), middleware.AccountFrom(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, helper)
}

func (h *HelperHandler) GetDashboard(c echo.Context) error {
	dashboard, err := h.helperUseCase.Dashboard(c.Request().Context(), middleware.AccountFrom(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, dashboard)
}

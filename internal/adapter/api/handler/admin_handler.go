package handler

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/usecase"
	"helperhub/pkg/response"
	"helperhub/pkg/utils"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminUseCase.ListUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *AdminHandler) ListHelpers(c echo.Context) error {
	helpers, err := h.adminUseCase.ListHelpers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, helpers)
}

func (h *AdminHandler) ListActiveHelpers(c echo.Context) error {
	helpers, err := h.adminUseCase.ListActiveHelpers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, helpers)
}

func (h *AdminHandler) ListBookings(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	bookings, total, err := h.adminUseCase.ListBookings(c.Request().Context(), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, bookings, total, params.Page, params.PageSize)
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.adminUseCase.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "User deleted successfully"})
}

func (h *AdminHandler) DeleteHelper(c echo.Context) error {
	if err := h.adminUseCase.DeleteHelper(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Helper deleted successfully"})
}

package handler

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/usecase"
	"helperhub/pkg/errors"
	"helperhub/pkg/response"
)

type BookingHandler struct {
	bookingUseCase *usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase *usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var input usecase.CreateBookingInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	account := middleware.AccountFrom(c)
	booking, err := h.bookingUseCase.Create(c.Request().Context(), account.ID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, booking)
}

func (h *BookingHandler) AcceptBooking(c echo.Context) error {
	account := middleware.AccountFrom(c)
	booking, err := h.bookingUseCase.Accept(c.Request().Context(), account.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) MarkReached(c echo.Context) error {
	account := middleware.AccountFrom(c)
	booking, err := h.bookingUseCase.MarkReached(c.Request().Context(), account.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	account := middleware.AccountFrom(c)
	booking, err := h.bookingUseCase.Complete(c.Request().Context(), account.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	booking, err := h.bookingUseCase.Cancel(c.Request().Context(), middleware.AccountFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.bookingUseCase.GetByID(c.Request().Context(), middleware.AccountFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) ListUserBookings(c echo.Context) error {
	bookings, err := h.bookingUseCase.ListForUser(c.Request().Context(), middleware.AccountFrom(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, bookings)
}

func (h *BookingHandler) ListHelperBookings(c echo.Context) error {
	bookings, err := h.bookingUseCase.ListForHelper(c.Request().Context(), middleware.AccountFrom(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, bookings)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/usecase"
	"helperhub/pkg/errors"
	"helperhub/pkg/response"
)

type MessageHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewMessageHandler(chatUseCase *usecase.ChatUseCase) *MessageHandler {
	return &MessageHandler{
		chatUseCase: chatUseCase,
	}
}

func (h *MessageHandler) ListBookingMessages(c echo.Context) error {
	messages, err := h.chatUseCase.ListBookingMessages(c.Request().Context(), middleware.AccountFrom(c), c.Param("bookingId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

// SendMessage is the HTTP twin of the sendBookingMessage/sendSupportMessage socket events.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var input usecase.SendMessageInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	message, err := h.chatUseCase.PostMessage(c.Request().Context(), middleware.AccountFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

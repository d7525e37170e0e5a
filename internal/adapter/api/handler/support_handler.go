package handler

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/usecase"
	"helperhub/pkg/response"
)

type SupportHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewSupportHandler(chatUseCase *usecase.ChatUseCase) *SupportHandler {
	return &SupportHandler{
		chatUseCase: chatUseCase,
	}
}

func (h *SupportHandler) GetMySupportMessages(c echo.Context) error {
	account := middleware.AccountFrom(c)
	messages, err := h.chatUseCase.ListSupport(c.Request().Context(), account, account.ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *SupportHandler) ListSupportUsers(c echo.Context) error {
	users, err := h.chatUseCase.ListSupportUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *SupportHandler) GetUserSupportMessages(c echo.Context) error {
	messages, err := h.chatUseCase.ListSupport(c.Request().Context(), middleware.AccountFrom(c), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

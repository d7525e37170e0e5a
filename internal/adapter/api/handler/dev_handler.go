package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/domain/entity"
	"helperhub/internal/usecase"
	"helperhub/pkg/errors"
	"helperhub/pkg/response"
)

// DevHandler seeds accounts and mints tokens. Development only.
type DevHandler struct {
	auth          *middleware.AuthMiddleware
	userUseCase   *usecase.UserUseCase
	helperUseCase *usecase.HelperUseCase
}

var devHandler *DevHandler

func NewDevHandler(auth *middleware.AuthMiddleware, userUseCase *usecase.UserUseCase, helperUseCase *usecase.HelperUseCase) *DevHandler {
	return &DevHandler{
		auth:          auth,
		userUseCase:   userUseCase,
		helperUseCase: helperUseCase,
	}
}

func SetupDevHandler(auth *middleware.AuthMiddleware, userUseCase *usecase.UserUseCase, helperUseCase *usecase.HelperUseCase) {
	devHandler = NewDevHandler(auth, userUseCase, helperUseCase)
}

func GetDevHandler() *DevHandler {
	return devHandler
}

type devTokenRequest struct {
	ID   string `json:"id" validate:"required"`
	Role string `json:"role" validate:"required,oneof=user helper admin"`
}

// GenerateToken issues a token for an existing user or helper and sets it as the auth cookie.
func (h *DevHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ctx := c.Request().Context()
	if req.Role == entity.RoleHelper {
		if _, err := h.helperUseCase.GetByID(ctx, req.ID); err != nil {
			return response.Error(c, err)
		}
	} else {
		user, err := h.userUseCase.GetByID(ctx, req.ID)
		if err != nil {
			return response.Error(c, err)
		}
		if user.Role != req.Role {
			return response.Error(c, errors.Forbidden("Role does not match the stored account", nil))
		}
	}

	account := entity.Account{ID: req.ID, Role: req.Role}
	token, err := h.auth.IssueToken(account)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to sign token", err))
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return response.Success(c, map[string]interface{}{
		"token":   token,
		"account": map[string]string{"id": account.ID, "role": account.Role},
	})
}

func (h *DevHandler) CreateUser(c echo.Context) error {
	var input usecase.CreateUserInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Create(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, user)
}

func (h *DevHandler) CreateHelper(c echo.Context) error {
	var input usecase.CreateHelperInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	helper, err := h.helperUseCase.Create(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, helper)
}

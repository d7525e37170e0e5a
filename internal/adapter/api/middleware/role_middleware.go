package middleware

import (
	"github.com/labstack/echo/v4"

	"helperhub/pkg/errors"
	"helperhub/pkg/response"
)

// RequireRole lets the request through only when the authenticated account has one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := AccountFrom(c)
			if account.ID == "" {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}

			for _, role := range roles {
				if account.Role == role {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden("Insufficient privileges", nil))
		}
	}
}

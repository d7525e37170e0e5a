package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"helperhub/internal/domain/entity"
	"helperhub/pkg/errors"
	"helperhub/pkg/response"
)

const (
	TokenCookie = "token"
	accountKey  = "account"
)

type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier resolves a token issued by an external identity provider.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (entity.Account, error)
}

type AuthMiddleware struct {
	secret   []byte
	ttl      time.Duration
	external TokenVerifier
}

func NewAuthMiddleware(secret string, ttl time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// WithVerifier makes Authenticate fall back to v for tokens not signed with the local secret.
func (m *AuthMiddleware) WithVerifier(v TokenVerifier) *AuthMiddleware {
	m.external = v
	return m
}

// IssueToken signs an HS256 token for account.
func (m *AuthMiddleware) IssueToken(account entity.Account) (string, error) {
	claims := Claims{
		ID:   account.ID,
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *AuthMiddleware) ParseToken(tokenStr string) (entity.Account, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return entity.Account{}, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || claims.ID == "" {
		return entity.Account{}, fmt.Errorf("invalid token")
	}
	return entity.Account{ID: claims.ID, Role: claims.Role}, nil
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.Split(c.Request().Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	// browsers cannot set headers on the websocket handshake
	return c.QueryParam(TokenCookie)
}

// Authenticate accepts a token from the "token" cookie, a Bearer header or the ?token= query.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		account, err := m.ParseToken(tokenStr)
		if err != nil && m.external != nil {
			account, err = m.external.VerifyToken(c.Request().Context(), tokenStr)
		}
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(accountKey, account)
		return next(c)
	}
}

// AccountFrom returns the caller stored by Authenticate.
func AccountFrom(c echo.Context) entity.Account {
	account, _ := c.Get(accountKey).(entity.Account)
	return account
}

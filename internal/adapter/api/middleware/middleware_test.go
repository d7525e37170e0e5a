package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhub/internal/domain/entity"
	"helperhub/internal/infrastructure/ratelimit"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, AccountFrom(c))
}

func serve(t *testing.T, h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestIssueAndParseToken(t *testing.T) {
	auth := NewAuthMiddleware("secret", time.Hour)

	token, err := auth.IssueToken(entity.Account{ID: "u1", Role: entity.RoleUser})
	require.NoError(t, err)

	account, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, entity.Account{ID: "u1", Role: entity.RoleUser}, account)

	_, err = NewAuthMiddleware("other", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredAndForeignAlgorithms(t *testing.T) {
	auth := NewAuthMiddleware("secret", -time.Minute)
	expired, err := auth.IssueToken(entity.Account{ID: "u1", Role: entity.RoleUser})
	require.NoError(t, err)
	_, err = auth.ParseToken(expired)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewAuthMiddleware("secret", time.Hour).ParseToken(unsigned)
	assert.Error(t, err)
}

func TestAuthenticateTokenSources(t *testing.T) {
	auth := NewAuthMiddleware("secret", time.Hour)
	token, err := auth.IssueToken(entity.Account{ID: "h1", Role: entity.RoleHelper})
	require.NoError(t, err)
	h := auth.Authenticate(okHandler)

	bearer := httptest.NewRequest(http.MethodGet, "/", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)
	rec := serve(t, h, bearer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "h1")

	cookie := httptest.NewRequest(http.MethodGet, "/", nil)
	cookie.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	assert.Equal(t, http.StatusOK, serve(t, h, cookie).Code)

	query := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	assert.Equal(t, http.StatusOK, serve(t, h, query).Code)

	missing := httptest.NewRequest(http.MethodGet, "/", nil)
	rec = serve(t, h, missing)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	garbage := httptest.NewRequest(http.MethodGet, "/", nil)
	garbage.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, garbage).Code)
}

type stubVerifier map[string]entity.Account

func (s stubVerifier) VerifyToken(_ context.Context, token string) (entity.Account, error) {
	account, ok := s[token]
	if !ok {
		return entity.Account{}, fmt.Errorf("unknown token")
	}
	return account, nil
}

func TestAuthenticateFallsBackToExternalVerifier(t *testing.T) {
	auth := NewAuthMiddleware("secret", time.Hour).
		WithVerifier(stubVerifier{"firebase-id-token": {ID: "u9", Role: entity.RoleUser}})
	h := auth.Authenticate(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer firebase-id-token")
	rec := serve(t, h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u9")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer other")
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, req).Code)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(entity.RoleAdmin)(okHandler)

	tests := []struct {
		name    string
		account *entity.Account
		want    int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &entity.Account{ID: "u1", Role: entity.RoleUser}, http.StatusForbidden},
		{"admin", &entity.Account{ID: "a1", Role: entity.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.account != nil {
				c.Set(accountKey, *tt.account)
			}
			require.NoError(t, h(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	h := RateLimit(ratelimit.NewRateLimiter(ratelimit.Limits{PerSecond: 0.001, Burst: 1}))(okHandler)

	newReq := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return req
	}

	assert.Equal(t, http.StatusOK, serve(t, h, newReq("10.0.0.1")).Code)

	rec := serve(t, h, newReq("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")

	assert.Equal(t, http.StatusOK, serve(t, h, newReq("10.0.0.2")).Code)
}

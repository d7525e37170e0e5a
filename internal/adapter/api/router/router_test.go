package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhub/internal/adapter/api"
	"helperhub/internal/adapter/api/handler"
	"helperhub/internal/adapter/api/middleware"
	"helperhub/internal/adapter/repository"
	"helperhub/internal/domain/entity"
	"helperhub/internal/infrastructure/mq"
	"helperhub/internal/infrastructure/ratelimit"
	"helperhub/internal/infrastructure/websocket"
	"helperhub/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := repository.NewMemoryRepositories()
	wsManager := websocket.NewManager(websocket.NewPresence(), websocket.NewRooms())
	limiter := ratelimit.NewRateLimiter(ratelimit.Limits{PerSecond: 100, Burst: 100})

	bookingUseCase := usecase.NewBookingUseCase(repos.Bookings, wsManager, mq.NopPublisher{})
	chatUseCase := usecase.NewChatUseCase(repos.Messages, repos.Bookings, wsManager, limiter)
	ratingUseCase := usecase.NewRatingUseCase(repos.Ratings, repos.Bookings, repos.Users, repos.Helpers)
	helperUseCase := usecase.NewHelperUseCase(repos.Helpers, repos.Bookings)
	userUseCase := usecase.NewUserUseCase(repos.Users)
	adminUseCase := usecase.NewAdminUseCase(repos.Users, repos.Helpers, repos.Bookings)
	wsManager.SetChatService(chatUseCase)

	auth := middleware.NewAuthMiddleware("test-secret", time.Hour)
	handler.Setup(bookingUseCase, chatUseCase, ratingUseCase, helperUseCase, adminUseCase)
	handler.SetupHealthHandler("memory", wsManager.Presence().Len)
	handler.SetupWebSocketHandler(wsManager, "*")
	handler.SetupDevHandler(auth, userUseCase, helperUseCase)

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e, auth)
	SetupDevRouter(e, "development")

	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) decode(env envelope, v interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(env.Data, v))
}

// account seeds a user or helper through the dev routes and returns its id and token.
func (s *testServer) account(role string) (string, string) {
	s.t.Helper()

	var id string
	if role == entity.RoleHelper {
		code, env := s.do(http.MethodPost, "/_dev/helpers", "", map[string]string{"name": "Hana", "category": "cleaning"})
		require.Equal(s.t, http.StatusCreated, code)
		var h entity.Helper
		s.decode(env, &h)
		id = h.ID
	} else {
		code, env := s.do(http.MethodPost, "/_dev/users", "", map[string]string{"name": "Udin", "role": role})
		require.Equal(s.t, http.StatusCreated, code)
		var u entity.User
		s.decode(env, &u)
		id = u.ID
	}

	code, env := s.do(http.MethodPost, "/_dev/token", "", map[string]string{"id": id, "role": role})
	require.Equal(s.t, http.StatusOK, code)
	var tok struct {
		Token string `json:"token"`
	}
	s.decode(env, &tok)

	// Helpers sign up unavailable.
	if role == entity.RoleHelper {
		code, env = s.do(http.MethodPut, "/api/helpers/availability", tok.Token, nil)
		require.Equal(s.t, http.StatusOK, code)
		var h entity.Helper
		s.decode(env, &h)
		require.True(s.t, h.IsAvailable)
	}
	return id, tok.Token
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memory")
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.account(entity.RoleUser)
	helperID, helperToken := s.account(entity.RoleHelper)

	code, env := s.do(http.MethodPost, "/api/bookings", userToken, map[string]string{"helper_id": helperID, "category": "cleaning"})
	require.Equal(t, http.StatusCreated, code)
	var booking entity.Booking
	s.decode(env, &booking)
	assert.Equal(t, entity.BookingWaiting, booking.Status)

	code, env = s.do(http.MethodPut, "/api/bookings/complete/"+booking.ID, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	code, env = s.do(http.MethodPut, "/api/bookings/accept/"+booking.ID, helperToken, nil)
	require.Equal(t, http.StatusOK, code)
	s.decode(env, &booking)
	assert.Equal(t, entity.BookingAccepted, booking.Status)
	require.NotNil(t, booking.ArrivalTime)

	code, env = s.do(http.MethodPut, "/api/bookings/accept/"+booking.ID, helperToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Booking already processed", env.Error.Message)

	code, _ = s.do(http.MethodPut, "/api/bookings/reached/"+booking.ID, helperToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPut, "/api/bookings/complete/"+booking.ID, userToken, nil)
	require.Equal(t, http.StatusOK, code)
	s.decode(env, &booking)
	assert.Equal(t, entity.BookingCompleted, booking.Status)

	code, env = s.do(http.MethodGet, "/api/helpers/dashboard", helperToken, nil)
	require.Equal(t, http.StatusOK, code)
	var dashboard entity.HelperDashboard
	s.decode(env, &dashboard)
	assert.Equal(t, int64(500), dashboard.Earnings)
	assert.True(t, dashboard.IsAvailable)

	code, _ = s.do(http.MethodPost, "/api/ratings", userToken, map[string]interface{}{"booking_id": booking.ID, "rating": 5})
	assert.Equal(t, http.StatusCreated, code)
	code, env = s.do(http.MethodPost, "/api/ratings", userToken, map[string]interface{}{"booking_id": booking.ID, "rating": 4})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/ratings/"+helperID, userToken, nil)
	require.Equal(t, http.StatusOK, code)
	var ratings []entity.Rating
	s.decode(env, &ratings)
	assert.Len(t, ratings, 1)

	code, env = s.do(http.MethodGet, "/api/ratings/"+helperID+"?kind=User", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	s.decode(env, &ratings)
	assert.Empty(t, ratings)

	code, _ = s.do(http.MethodGet, "/api/ratings/"+helperID+"?kind=Robot", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodPut, "/api/bookings/cancel/"+booking.ID, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestBookingRoutesEnforceRoles(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.account(entity.RoleUser)
	_, strangerToken := s.account(entity.RoleUser)
	helperID, helperToken := s.account(entity.RoleHelper)

	code, _ := s.do(http.MethodPost, "/api/bookings", "", map[string]string{"helper_id": helperID, "category": "cleaning"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/bookings", helperToken, map[string]string{"helper_id": helperID, "category": "cleaning"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodPost, "/api/bookings", userToken, map[string]string{"category": "cleaning"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, _ = s.do(http.MethodPost, "/api/bookings", userToken, map[string]string{"helper_id": "missing", "category": "cleaning"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodPost, "/api/bookings", userToken, map[string]string{"helper_id": helperID, "category": "cleaning"})
	require.Equal(t, http.StatusCreated, code)
	var booking entity.Booking
	s.decode(env, &booking)

	code, _ = s.do(http.MethodGet, "/api/bookings/"+booking.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/bookings/user", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []entity.Booking
	s.decode(env, &mine)
	assert.Len(t, mine, 1)

	code, _ = s.do(http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestMessagesAndSupportOverHTTP(t *testing.T) {
	s := newTestServer(t)
	userID, userToken := s.account(entity.RoleUser)
	_, adminToken := s.account(entity.RoleAdmin)
	_, strangerToken := s.account(entity.RoleUser)
	helperID, _ := s.account(entity.RoleHelper)

	_, env := s.do(http.MethodPost, "/api/bookings", userToken, map[string]string{"helper_id": helperID, "category": "cleaning"})
	var booking entity.Booking
	s.decode(env, &booking)

	code, _ := s.do(http.MethodPost, "/api/messages", userToken, map[string]string{"type": "booking", "booking_id": booking.ID, "message": "on my way?"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(http.MethodPost, "/api/messages", strangerToken, map[string]string{"type": "booking", "booking_id": booking.ID, "message": "hi"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/messages/"+booking.ID, userToken, nil)
	require.Equal(t, http.StatusOK, code)
	var messages []entity.Message
	s.decode(env, &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, "on my way?", messages[0].Content)

	code, _ = s.do(http.MethodPost, "/api/messages", userToken, map[string]string{"type": "support", "user_id": userID, "message": "help"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(http.MethodGet, "/api/support/users", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var users []string
	s.decode(env, &users)
	assert.Equal(t, []string{userID}, users)

	code, _ = s.do(http.MethodGet, "/api/support/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/support/admin/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	s.decode(env, &messages)
	assert.Len(t, messages, 1)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	userID, userToken := s.account(entity.RoleUser)
	_, adminToken := s.account(entity.RoleAdmin)
	helperID, _ := s.account(entity.RoleHelper)

	for i := 0; i < 3; i++ {
		code, _ := s.do(http.MethodPost, "/api/bookings", userToken, map[string]string{"helper_id": helperID, "category": "cleaning"})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := s.do(http.MethodGet, "/api/admin/bookings?page=2&limit=2", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items      []entity.Booking `json:"items"`
		Total      int64            `json:"total"`
		TotalPages int              `json:"totalPages"`
	}
	s.decode(env, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	code, env = s.do(http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var stats entity.PlatformStats
	s.decode(env, &stats)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalHelpers)
	assert.Equal(t, int64(3), stats.TotalBookings)

	code, _ = s.do(http.MethodDelete, "/api/admin/user/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/admin/user/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodGet, "/api/admin/helpers/active", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var active []entity.Helper
	s.decode(env, &active)
	assert.Len(t, active, 1)
}

func TestDevTokenRejectsRoleMismatch(t *testing.T) {
	s := newTestServer(t)
	userID, _ := s.account(entity.RoleUser)

	code, _ := s.do(http.MethodPost, "/_dev/token", "", map[string]string{"id": userID, "role": entity.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/_dev/token", "", map[string]string{"id": "missing", "role": entity.RoleHelper})
	assert.Equal(t, http.StatusNotFound, code)
}

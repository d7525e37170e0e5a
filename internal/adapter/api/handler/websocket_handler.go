package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"helperhub/internal/adapter/api/middleware"
	ws "helperhub/internal/infrastructure/websocket"
	"helperhub/pkg/logger"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
}

var webSocketHandler *WebSocketHandler

// NewWebSocketHandler accepts handshakes from allowedOrigin only; "*" allows any origin.
func NewWebSocketHandler(wsManager *ws.Manager, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func SetupWebSocketHandler(wsManager *ws.Manager, allowedOrigin string) {
	webSocketHandler = NewWebSocketHandler(wsManager, allowedOrigin)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

// HandleWebSocket runs behind Authenticate; the socket is bound to the token's account.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	account := middleware.AccountFrom(c)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logger.Warn("websocket upgrade failed for %s: %v", account.ID, err)
		return nil
	}

	h.wsManager.Serve(conn, account)
	return nil
}

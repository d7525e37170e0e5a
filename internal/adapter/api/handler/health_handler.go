package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	storageDriver string
	connections   func() int
}

var healthHandler *HealthHandler

func NewHealthHandler(storageDriver string, connections func() int) *HealthHandler {
	return &HealthHandler{
		storageDriver: storageDriver,
		connections:   connections,
	}
}

func SetupHealthHandler(storageDriver string, connections func() int) {
	healthHandler = NewHealthHandler(storageDriver, connections)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status":  "Server is running",
		"time":    time.Now().Format(time.RFC3339),
		"storage": h.storageDriver,
	}
	if h.connections != nil {
		body["connections"] = h.connections()
	}
	return c.JSON(http.StatusOK, body)
}

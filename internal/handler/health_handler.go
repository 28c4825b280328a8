package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/pkg/logger"
)

// Pinger checks a backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and database health
type HealthHandler struct {
	service string
	db      Pinger
}

func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	if err := h.db.Ping(c.Request().Context()); err != nil {
		logger.FromEcho(c).Error("Database ping failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":   "unhealthy",
			"service":  h.service,
			"database": "unreachable",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "healthy",
		"service":  h.service,
		"database": "ok",
	})
}

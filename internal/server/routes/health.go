package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthRoutes registers the liveness endpoint.
type HealthRoutes struct{}

// NewHealthRoutes constructs health routes.
func NewHealthRoutes() *HealthRoutes {
	return &HealthRoutes{}
}

// RegisterRoutes registers the health endpoint.
func (h *HealthRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/health", h.handleHealth)
}

func (h *HealthRoutes) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/karolisr/disputedesk/internal/metrics"
)

// MetricsRoutes exposes the Prometheus scrape endpoint.
type MetricsRoutes struct {
	gatherer prometheus.Gatherer
}

// NewMetricsRoutes constructs metrics routes.
func NewMetricsRoutes(gatherer prometheus.Gatherer) *MetricsRoutes {
	return &MetricsRoutes{gatherer: gatherer}
}

// RegisterRoutes registers the metrics endpoint.
func (m *MetricsRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/metrics", echo.WrapHandler(metrics.Handler(m.gatherer)))
}

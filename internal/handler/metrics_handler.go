package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mfirdaus-dev/petrostaff-api/internal/service"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/response"
)

// MetricsHandler exposes Prometheus metrics and admin snapshots.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs a new MetricsHandler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus serves the Prometheus scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot godoc
// @Summary Aggregated runtime metrics
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/summary [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

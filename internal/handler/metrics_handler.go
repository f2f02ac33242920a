package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fund-dynamics-api/internal/service"
	"github.com/noah-isme/fund-dynamics-api/pkg/response"
)

type readinessChecker interface {
	Ready() bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics    *service.MetricsService
	references readinessChecker
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, references readinessChecker) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, references: references}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary godoc
// @Summary Runtime counters
// @Tags Observability
// @Produce json
// @Success 200 {object} response.Envelope{data=models.ServiceMetrics}
// @Router /metrics/summary [get]
func (h *MetricsHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

// Health responds with a generic OK payload for liveness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 503 until the reference tables are loaded.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.references == nil || !h.references.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "references not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

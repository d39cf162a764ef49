package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type readinessProbe interface {
	Ready() bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	catalog readinessProbe
}

// NewMetricsHandler constructs a metrics handler. catalog may be nil.
func NewMetricsHandler(metrics *service.MetricsService, catalog readinessProbe) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, catalog: catalog}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary godoc
// @Summary Metrics summary
// @Tags Ops
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/summary [get]
func (h *MetricsHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

// Health responds with a generic OK payload for liveness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports ready once the catalog has been loaded.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.catalog != nil && !h.catalog.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "warming", "catalog": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "catalog": true})
}

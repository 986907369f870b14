package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/aigi/pkg/metrics"
)

// HealthHandler exposes the engine's prometheus registry. A successful
// scrape doubles as the liveness signal.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a health handler bound to the metrics registry.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

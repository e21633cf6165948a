package http

import (
	"net/http"

	apierrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
)

// MetricsHandler serves the Prometheus scrape endpoint
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the exporter's HTTP handler. A nil exporter means
// metrics are disabled and every scrape answers 503.
func NewMetricsHandler(exporter http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusServiceUnavailable, apierrors.CodeServiceUnavailable, "metrics are disabled"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	datasets DataServiceInterface
	logger   *slog.Logger
	started  time.Time
	version  string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(datasets DataServiceInterface, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		datasets: datasets,
		logger:   logger.With(slog.String("handler", "health")),
		started:  time.Now(),
		version:  version,
	}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// Readiness handles GET /healthz/ready. The service is ready once at least
// one dataset can be loaded.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.datasets.Usable(r.Context()) {
		h.logger.WarnContext(r.Context(), "readiness check failed: no usable data")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"status": "no usable data"})
		return
	}
	render.JSON(w, r, map[string]string{"status": "ready"})
}

// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/helpers"
	svc "github.com/dropDatabas3/syndik/internal/http/services/health"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

type HealthController struct {
	service svc.Service
	version string
}

func NewHealthController(s svc.Service, version string) *HealthController {
	return &HealthController{service: s, version: version}
}

// Healthz maneja GET /healthz (liveness; no toca dependencias).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := c.service.Check(ctx)

	if c.version != "" {
		w.Header().Set("X-Service-Version", c.version)
	}
	status := http.StatusOK
	if resp.Status == svc.StatusUnavailable {
		status = http.StatusServiceUnavailable
	}
	logger.From(ctx).Debug("health check completed",
		logger.Layer("controller"), logger.Op("HealthController.Readyz"),
		logger.String("status", resp.Status))

	helpers.WriteJSON(w, status, resp)
}

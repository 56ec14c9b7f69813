package router

import "github.com/go-chi/chi/v5"

// registerHealthRoutes: públicos y sin logging (muy frecuentes).
func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Health
	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
}

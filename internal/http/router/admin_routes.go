package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
)

// registerAdminRoutes: /v1/admin/*, sólo rol admin, sin residencia.
func registerAdminRoutes(r chi.Router, d Deps) {
	c := d.Controllers

	r.Route("/admin", func(a chi.Router) {
		a.Use(mw.RequireAuth(d.Issuer, d.Roles), mw.RequireRole(repository.RoleAdmin))

		a.Get("/dashboard", c.Dashboard.Admin)

		a.Get("/residences", c.Residences.List)
		a.Post("/residences", c.Residences.Create)
		a.Get("/residences/{id}", c.Residences.Get)
		a.Patch("/residences/{id}", c.Residences.Update)
		a.Post("/residences/{id}/syndic", c.Residences.AssignSyndic)

		a.Post("/documents/{id}/approve", c.Documents.Approve)
		a.Post("/documents/{id}/reject", c.Documents.Reject)

		a.Get("/users", c.Users.List)
		a.Patch("/users/{id}/role", c.Users.SetRole)
	})
}

package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
)

var (
	managers = mw.RequireRole(repository.RoleSyndic, repository.RoleAdmin)
	staff    = mw.RequireRole(repository.RoleSyndic, repository.RoleAdmin, repository.RoleGuard)
	payers   = mw.RequireRole(repository.RoleSyndic, repository.RoleAdmin, repository.RoleResident)
	resident = mw.RequireRole(repository.RoleResident)
)

// registerResidenceRoutes registra las rutas autenticadas.
// Las de residencia pasan por WithResidence; join y documents no.
func registerResidenceRoutes(r chi.Router, d Deps) {
	c := d.Controllers

	r.Group(func(auth chi.Router) {
		auth.Use(mw.RequireAuth(d.Issuer, d.Roles))

		auth.Post("/residences/{id}/join", c.Residences.Join)

		auth.Get("/documents", c.Documents.List)
		auth.Post("/documents", c.Documents.Submit)
		auth.Get("/documents/{id}", c.Documents.Get)
		auth.Get("/documents/{id}/file", c.Documents.FileURL)

		auth.Group(func(s chi.Router) {
			s.Use(mw.WithResidence(d.Resolver))

			s.Get("/dashboard", c.Dashboard.Residence)

			s.Route("/residents", func(rr chi.Router) {
				rr.With(staff).Get("/", c.Residents.List)
				rr.With(managers).Post("/", c.Residents.Add)
				rr.With(staff).Get("/{id}", c.Residents.Get)
				rr.With(managers).Patch("/{id}/verify", c.Residents.Verify)
				rr.With(managers).Patch("/{id}", c.Residents.UpdateApartment)
				rr.With(managers).Delete("/{id}", c.Residents.Remove)
			})

			s.Route("/fees", func(fr chi.Router) {
				fr.With(payers).Get("/", c.Fees.ListFees)
				fr.With(managers).Post("/", c.Fees.CreateFee)
				fr.With(managers).Patch("/{id}", c.Fees.UpdateFeeStatus)
				fr.With(managers).Delete("/{id}", c.Fees.DeleteFee)
			})

			s.With(payers).Get("/contributions", c.Fees.ListContributions)
			s.With(managers).Post("/contributions/generate", c.Fees.GenerateContributions)

			s.Route("/payments", func(pr chi.Router) {
				pr.Use(payers)
				pr.Get("/", c.Payments.List)
				pr.Post("/", c.Payments.Declare)
				pr.Get("/{id}", c.Payments.Get)
				pr.With(managers).Post("/{id}/verify", c.Payments.Verify)
				pr.With(managers).Post("/{id}/reject", c.Payments.Reject)
			})

			s.Route("/expenses", func(er chi.Router) {
				er.Use(payers)
				er.Get("/", c.Expenses.List)
				er.Get("/summary", c.Expenses.Summary)
				er.With(managers).Post("/", c.Expenses.Create)
				er.With(managers).Delete("/{id}", c.Expenses.Delete)
			})

			s.Route("/incidents", func(ir chi.Router) {
				ir.Get("/", c.Incidents.List)
				ir.Post("/", c.Incidents.Report)
				ir.Get("/{id}", c.Incidents.Get)
				ir.With(managers).Patch("/{id}/status", c.Incidents.UpdateStatus)
			})

			s.Route("/complaints", func(cr chi.Router) {
				cr.With(payers).Get("/", c.Complaints.List)
				cr.With(resident).Post("/", c.Complaints.File)
				cr.With(managers).Patch("/{id}", c.Complaints.Respond)
			})
		})
	})
}

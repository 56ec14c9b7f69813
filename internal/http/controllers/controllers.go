// Package controllers agrupa todos los controllers HTTP.
// Este es el "composition root" de controllers: recibe los services ya
// construidos y los inyecta en cada controller de dominio.
package controllers

import (
	"github.com/dropDatabas3/syndik/internal/http/controllers/auth"
	"github.com/dropDatabas3/syndik/internal/http/controllers/complaints"
	"github.com/dropDatabas3/syndik/internal/http/controllers/dashboard"
	"github.com/dropDatabas3/syndik/internal/http/controllers/documents"
	"github.com/dropDatabas3/syndik/internal/http/controllers/expenses"
	"github.com/dropDatabas3/syndik/internal/http/controllers/fees"
	"github.com/dropDatabas3/syndik/internal/http/controllers/health"
	"github.com/dropDatabas3/syndik/internal/http/controllers/incidents"
	"github.com/dropDatabas3/syndik/internal/http/controllers/payments"
	"github.com/dropDatabas3/syndik/internal/http/controllers/residences"
	"github.com/dropDatabas3/syndik/internal/http/controllers/residents"
	"github.com/dropDatabas3/syndik/internal/http/controllers/users"
	"github.com/dropDatabas3/syndik/internal/http/services"
)

// Controllers agrupa un controller por dominio.
type Controllers struct {
	Auth       *auth.AuthController
	Residences *residences.ResidencesController
	Residents  *residents.ResidentsController
	Fees       *fees.FeesController
	Payments   *payments.PaymentsController
	Dashboard  *dashboard.DashboardController
	Expenses   *expenses.ExpensesController
	Incidents  *incidents.IncidentsController
	Complaints *complaints.ComplaintsController
	Documents  *documents.DocumentsController
	Users      *users.UsersController
	Health     *health.HealthController
}

// New crea todos los controllers a partir de los services.
func New(s *services.Services, version string) *Controllers {
	return &Controllers{
		Auth:       auth.NewAuthController(s.Auth),
		Residences: residences.NewResidencesController(s.Residences),
		Residents:  residents.NewResidentsController(s.Residents),
		Fees:       fees.NewFeesController(s.Fees),
		Payments:   payments.NewPaymentsController(s.Payments),
		Dashboard:  dashboard.NewDashboardController(s.Dashboard),
		Expenses:   expenses.NewExpensesController(s.Expenses),
		Incidents:  incidents.NewIncidentsController(s.Incidents),
		Complaints: complaints.NewComplaintsController(s.Complaints),
		Documents:  documents.NewDocumentsController(s.Documents),
		Users:      users.NewUsersController(s.Users),
		Health:     health.NewHealthController(s.Health, version),
	}
}

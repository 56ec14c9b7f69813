// Package dashboard contiene el controller de los tableros.
package dashboard

import (
	"net/http"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/dashboard"
)

type DashboardController struct {
	service svc.Service
}

func NewDashboardController(s svc.Service) *DashboardController {
	return &DashboardController{service: s}
}

// Residence maneja GET /v1/dashboard. El residente recibe su vista personal.
func (c *DashboardController) Residence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := mw.GetScope(ctx)

	var (
		out any
		err error
	)
	if scope.Role == repository.RoleResident {
		out, err = c.service.Resident(ctx, scope)
	} else {
		out, err = c.service.Residence(ctx, scope.ResidenceID)
	}
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Admin maneja GET /v1/admin/dashboard
func (c *DashboardController) Admin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.Admin(ctx)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

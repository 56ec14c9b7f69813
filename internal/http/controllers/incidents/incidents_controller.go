// Package incidents contiene el controller de incidentes.
package incidents

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/incidents"
)

type IncidentsController struct {
	service svc.Service
}

func NewIncidentsController(s svc.Service) *IncidentsController {
	return &IncidentsController{service: s}
}

// List maneja GET /v1/incidents?status=
func (c *IncidentsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.List(ctx, mw.GetScope(ctx), helpers.Query(r, "status"))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Get maneja GET /v1/incidents/{id}
func (c *IncidentsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Get(ctx, mw.GetScope(ctx), id)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Report maneja POST /v1/incidents
func (c *IncidentsController) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.ReportIncidentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Report(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// UpdateStatus maneja PATCH /v1/incidents/{id}/status
func (c *IncidentsController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.StatusRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.UpdateStatus(ctx, mw.GetScope(ctx), id, req.Status)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, svc.ErrInvalidPriority), errors.Is(err, svc.ErrInvalidStatus):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	}
	return err
}

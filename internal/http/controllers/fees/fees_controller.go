// Package fees contiene los controllers de cuotas puntuales y contribuciones mensuales.
package fees

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/fees"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

type FeesController struct {
	service svc.Service
}

func NewFeesController(s svc.Service) *FeesController {
	return &FeesController{service: s}
}

func filterFrom(r *http.Request) svc.ListFilter {
	return svc.ListFilter{
		ProfileID: helpers.Query(r, "profileId"),
		Status:    helpers.Query(r, "status"),
		Period:    helpers.Query(r, "period"),
	}
}

// ListFees maneja GET /v1/fees?profileId=&status=
func (c *FeesController) ListFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.ListFees(ctx, mw.GetScope(ctx), filterFrom(r))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// CreateFee maneja POST /v1/fees. Con allResidents crea una cuota por residente verificado.
func (c *FeesController) CreateFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("FeesController.CreateFee"))

	var req dto.CreateFeeRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.CreateFee(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	log.Info("fees created", logger.Count(len(out)))
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// UpdateFeeStatus maneja PATCH /v1/fees/{id}
func (c *FeesController) UpdateFeeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.FeeStatusRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.UpdateFeeStatus(ctx, mw.GetScope(ctx), id, req.Status)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// DeleteFee maneja DELETE /v1/fees/{id}
func (c *FeesController) DeleteFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.DeleteFee(ctx, mw.GetScope(ctx), id); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContributions maneja GET /v1/contributions?period=&status=&profileId=
func (c *FeesController) ListContributions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.ListContributions(ctx, mw.GetScope(ctx), filterFrom(r))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// GenerateContributions maneja POST /v1/contributions/generate. Idempotente por período.
func (c *FeesController) GenerateContributions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.GenerateContributionsRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.GenerateContributions(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	status := http.StatusCreated
	if out.Created == 0 {
		status = http.StatusOK
	}
	helpers.WriteSuccess(w, status, out)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, svc.ErrInvalidAmount),
		errors.Is(err, svc.ErrInvalidDate),
		errors.Is(err, svc.ErrInvalidStatus),
		errors.Is(err, svc.ErrInvalidPeriod),
		errors.Is(err, svc.ErrAmbiguousTarget):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	case errors.Is(err, svc.ErrNotMember), errors.Is(err, svc.ErrNoTargets):
		return httperrors.ErrUnprocessableEntity.WithDetail(err.Error())
	case errors.Is(err, svc.ErrHasAllocations):
		return httperrors.ErrConflict.WithDetail(err.Error())
	}
	return err
}

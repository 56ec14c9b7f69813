// Package residents contiene el controller del padrón de la residencia.
package residents

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/residents"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

type ResidentsController struct {
	service svc.Service
}

func NewResidentsController(s svc.Service) *ResidentsController {
	return &ResidentsController{service: s}
}

// List maneja GET /v1/residents?verified=&search=
func (c *ResidentsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	verified, err := helpers.QueryBool(r, "verified")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.List(ctx, mw.GetScope(ctx), svc.Filter{Verified: verified, Search: helpers.Query(r, "search")})
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Get maneja GET /v1/residents/{id} (id = profile id).
func (c *ResidentsController) Get(w http.ResponseWriter, r *http.Request) {
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

// Add maneja POST /v1/residents. Crea el perfil si no existe y envía la invitación.
func (c *ResidentsController) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResidentsController.Add"))

	var req dto.AddResidentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Add(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	log.Info("resident added", logger.UserID(out.ProfileID))
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// Verify maneja PATCH /v1/residents/{id}/verify (id = link id).
func (c *ResidentsController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Verify(ctx, mw.GetScope(ctx), id); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateApartment maneja PATCH /v1/residents/{id}
func (c *ResidentsController) UpdateApartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.ApartmentPatch
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.UpdateApartment(ctx, mw.GetScope(ctx), id, req.Apartment); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove maneja DELETE /v1/residents/{id}
func (c *ResidentsController) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Remove(ctx, mw.GetScope(ctx), id); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, svc.ErrInvalidEmail):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	}
	return err
}

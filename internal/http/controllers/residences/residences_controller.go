// Package residences contiene los controllers de residencias (admin) y de
// solicitud de ingreso.
package residences

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/residences"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

type ResidencesController struct {
	service svc.Service
}

func NewResidencesController(s svc.Service) *ResidencesController {
	return &ResidencesController{service: s}
}

// List maneja GET /v1/admin/residences?search=&limit=&offset=
func (c *ResidencesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := helpers.QueryInt(r, "limit", 50)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	offset, err := helpers.QueryInt(r, "offset", 0)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.List(ctx, helpers.Query(r, "search"), limit, offset)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Get maneja GET /v1/admin/residences/{id}
func (c *ResidencesController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Get(ctx, id)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Create maneja POST /v1/admin/residences
func (c *ResidencesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResidencesController.Create"))

	var req dto.ResidenceRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Create(ctx, req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	log.Info("residence created", logger.ResidenceID(out.ID))
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// Update maneja PATCH /v1/admin/residences/{id}
func (c *ResidencesController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.ResidencePatch
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Update(ctx, id, req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// AssignSyndic maneja POST /v1/admin/residences/{id}/syndic
func (c *ResidencesController) AssignSyndic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.AssignSyndicRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.AssignSyndic(ctx, id, req.ProfileID)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Join maneja POST /v1/residences/{id}/join. El vínculo queda pendiente de verificación.
func (c *ResidencesController) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.JoinRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.RequestJoin(ctx, p.UserID, id, req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, svc.ErrSyndicTaken):
		return httperrors.ErrSyndicTaken
	case errors.Is(err, svc.ErrInvalidRole):
		return httperrors.ErrUnprocessableEntity.WithDetail(err.Error())
	}
	return err
}

// Package complaints contiene el controller de reclamos.
package complaints

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/complaints"
)

type ComplaintsController struct {
	service svc.Service
}

func NewComplaintsController(s svc.Service) *ComplaintsController {
	return &ComplaintsController{service: s}
}

// List maneja GET /v1/complaints?status=
func (c *ComplaintsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.List(ctx, mw.GetScope(ctx), helpers.Query(r, "status"))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// File maneja POST /v1/complaints
func (c *ComplaintsController) File(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.FileComplaintRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.File(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// Respond maneja PATCH /v1/complaints/{id}
func (c *ComplaintsController) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.RespondComplaintRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Respond(ctx, mw.GetScope(ctx), id, req)
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
	case errors.Is(err, svc.ErrInvalidStatus):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	}
	return err
}

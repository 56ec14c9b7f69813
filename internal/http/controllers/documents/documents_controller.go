// Package documents contiene el controller de solicitudes de administración.
package documents

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/documents"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

type DocumentsController struct {
	service svc.Service
}

func NewDocumentsController(s svc.Service) *DocumentsController {
	return &DocumentsController{service: s}
}

// List maneja GET /v1/documents?status=
func (c *DocumentsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.List(ctx, mw.GetScope(ctx), helpers.Query(r, "status"))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Get maneja GET /v1/documents/{id}
func (c *DocumentsController) Get(w http.ResponseWriter, r *http.Request) {
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

// FileURL maneja GET /v1/documents/{id}/file
func (c *DocumentsController) FileURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.FileURL(ctx, mw.GetScope(ctx), id)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Submit maneja POST /v1/documents
func (c *DocumentsController) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.SubmitDocumentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Submit(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// Approve maneja POST /v1/admin/documents/{id}/approve
func (c *DocumentsController) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DocumentsController.Approve"))

	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Approve(ctx, mw.GetScope(ctx), id)
	if err != nil {
		log.Warn("approve failed", logger.DocumentID(id), logger.Err(err))
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Reject maneja POST /v1/admin/documents/{id}/reject
func (c *DocumentsController) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.RejectDocumentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Reject(ctx, mw.GetScope(ctx), id, req.Note)
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
	case errors.Is(err, svc.ErrPendingExists):
		return httperrors.ErrConflict.WithDetail(err.Error())
	case errors.Is(err, svc.ErrAlreadyReviewed):
		return httperrors.ErrAlreadyReviewed
	case errors.Is(err, svc.ErrAlreadySyndic):
		return httperrors.ErrSyndicTaken
	case errors.Is(err, svc.ErrFilesDisabled):
		return httperrors.ErrServiceUnavailable.WithDetail(err.Error())
	}
	return err
}

// Package payments contiene el controller de pagos declarados y su revisión.
package payments

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/payments"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

type PaymentsController struct {
	service svc.Service
}

func NewPaymentsController(s svc.Service) *PaymentsController {
	return &PaymentsController{service: s}
}

// List maneja GET /v1/payments?status=
func (c *PaymentsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.List(ctx, mw.GetScope(ctx), helpers.Query(r, "status"))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Get maneja GET /v1/payments/{id}
func (c *PaymentsController) Get(w http.ResponseWriter, r *http.Request) {
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

// Declare maneja POST /v1/payments
func (c *PaymentsController) Declare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PaymentsController.Declare"))

	var req dto.DeclarePaymentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Declare(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	log.Info("payment declared", logger.PaymentID(out.ID), logger.Amount(int64(out.Amount)))
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// Verify maneja POST /v1/payments/{id}/verify
func (c *PaymentsController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Verify(ctx, mw.GetScope(ctx), id)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Reject maneja POST /v1/payments/{id}/reject
func (c *PaymentsController) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.RejectPaymentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Reject(ctx, mw.GetScope(ctx), id, req.Reason)
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
	case errors.Is(err, svc.ErrInvalidAmount),
		errors.Is(err, svc.ErrInvalidMethod),
		errors.Is(err, svc.ErrInvalidStatus):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	case errors.Is(err, svc.ErrNotMember):
		return httperrors.ErrUnprocessableEntity.WithDetail(err.Error())
	case errors.Is(err, svc.ErrAlreadyReviewed):
		return httperrors.ErrAlreadyReviewed
	}
	return err
}

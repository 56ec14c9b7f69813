// Package expenses contiene el controller de gastos de la residencia.
package expenses

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/expenses"
)

type ExpensesController struct {
	service svc.Service
}

func NewExpensesController(s svc.Service) *ExpensesController {
	return &ExpensesController{service: s}
}

// List maneja GET /v1/expenses?month=YYYY-MM&category=
func (c *ExpensesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.List(ctx, mw.GetScope(ctx), helpers.Query(r, "month"), helpers.Query(r, "category"))
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// Create maneja POST /v1/expenses
func (c *ExpensesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.CreateExpenseRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Create(ctx, mw.GetScope(ctx), req)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, out)
}

// Delete maneja DELETE /v1/expenses/{id}
func (c *ExpensesController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(ctx, mw.GetScope(ctx), id); err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary maneja GET /v1/expenses/summary?month=YYYY-MM
func (c *ExpensesController) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := c.service.Summary(ctx, mw.GetScope(ctx), helpers.Query(r, "month"))
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
		errors.Is(err, svc.ErrInvalidDate),
		errors.Is(err, svc.ErrInvalidMonth):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	}
	return err
}

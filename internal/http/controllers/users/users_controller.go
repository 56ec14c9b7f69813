// Package users contiene el controller de administración de perfiles.
package users

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/http/dto"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	svc "github.com/dropDatabas3/syndik/internal/http/services/users"
)

type UsersController struct {
	service svc.Service
}

func NewUsersController(s svc.Service) *UsersController {
	return &UsersController{service: s}
}

// List maneja GET /v1/admin/users?role=&search=&limit=&offset=
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
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
	out, err := c.service.List(ctx, svc.Filter{
		Role:   helpers.Query(r, "role"),
		Search: helpers.Query(r, "search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

// SetRole maneja PATCH /v1/admin/users/{id}/role
func (c *UsersController) SetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := mw.GetPrincipal(ctx)
	id, err := helpers.PathParam(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.SetRoleRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.SetRole(ctx, p.UserID, id, req.Role)
	if err != nil {
		httperrors.WriteErrorCtx(ctx, w, mapError(err))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, out)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, svc.ErrInvalidRole):
		return httperrors.ErrBadRequest.WithDetail(err.Error())
	case errors.Is(err, svc.ErrSelfChange):
		return httperrors.ErrForbidden.WithDetail(err.Error())
	case errors.Is(err, svc.ErrStillSyndic):
		return httperrors.ErrConflict.WithDetail(err.Error())
	}
	return err
}

// Package users es la administración global de perfiles (sólo admin).
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/syndik/internal/audit"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrSelfChange  = errors.New("admins cannot change their own role")
	// ErrStillSyndic el perfil administra una residencia; hay que reasignarla primero.
	ErrStillSyndic = errors.New("profile still manages a residence")
)

type Filter struct {
	Role   string
	Search string
	Limit  int
	Offset int
}

type Service interface {
	List(ctx context.Context, f Filter) (*dto.UserListResponse, error)
	SetRole(ctx context.Context, actorID, userID, role string) (*dto.ProfileResponse, error)
}

type Deps struct {
	Store store.Store
	Roles access.RoleLookup // nil = sin cache de roles que invalidar
}

type service struct {
	deps Deps
}

func New(d Deps) Service { return &service{deps: d} }

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *service) List(ctx context.Context, f Filter) (*dto.UserListResponse, error) {
	role := repository.Role(strings.ToLower(strings.TrimSpace(f.Role)))
	if role != "" && !role.Valid() {
		return nil, ErrInvalidRole
	}
	limit, offset := clampPage(f.Limit, f.Offset)
	rows, err := s.deps.Store.Profiles().List(ctx, repository.ListProfilesFilter{
		Role:   role,
		Search: strings.TrimSpace(f.Search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{Users: make([]dto.ProfileResponse, 0, len(rows)), Limit: limit, Offset: offset}
	for _, p := range rows {
		out.Users = append(out.Users, dto.Profile(p))
	}
	return out, nil
}

// SetRole cambia el rol global. Un syndic con residencia asignada no puede
// degradarse sin antes reasignar la residencia.
func (s *service) SetRole(ctx context.Context, actorID, userID, role string) (*dto.ProfileResponse, error) {
	r := repository.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	if actorID == userID {
		return nil, ErrSelfChange
	}
	p, err := s.deps.Store.Profiles().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Role == r {
		out := dto.Profile(*p)
		return &out, nil
	}
	if p.Role == repository.RoleSyndic {
		if _, err := s.deps.Store.Residences().GetBySyndic(ctx, p.ID); err == nil {
			return nil, ErrStillSyndic
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	}
	if err := s.deps.Store.Profiles().SetRole(ctx, p.ID, r); err != nil {
		return nil, err
	}
	if s.deps.Roles != nil {
		s.deps.Roles.Forget(ctx, p.ID)
	}
	logger.From(ctx).Info("role changed", logger.Layer("service"), logger.Op("Users.SetRole"),
		logger.UserID(p.ID), logger.String("from", string(p.Role)), logger.Role(string(r)))
	audit.Log(ctx, audit.RoleChanged, actorID,
		logger.UserID(p.ID), logger.String("from", string(p.Role)), logger.Role(string(r)))

	p.Role = r
	out := dto.Profile(*p)
	return &out, nil
}

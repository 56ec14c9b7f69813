// Package access resuelve a qué residencia pertenece cada request.
// La residencia es la frontera de tenancy: todo servicio con datos de
// residencia recibe un Scope ya resuelto.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	// ErrResidenceRequired el usuario no tiene residencia (o admin sin X-Residence-ID).
	ErrResidenceRequired = errors.New("residence required")
	// ErrNotVerified el vínculo existe pero el syndic no lo verificó.
	ErrNotVerified = errors.New("residence membership not verified")
)

// Scope es el contexto de autorización de un request.
type Scope struct {
	UserID      string
	Role        repository.Role
	ResidenceID string
}

// Manages indica si el scope puede administrar la residencia (syndic o admin).
func (s Scope) Manages() bool {
	return s.Role == repository.RoleSyndic || s.Role == repository.RoleAdmin
}

// IsResident es true para residentes; sólo ven sus propios datos.
func (s Scope) IsResident() bool { return s.Role == repository.RoleResident }

// OwnerFilter devuelve el profile_id por el que hay que filtrar, vacío si ve todo.
func (s Scope) OwnerFilter() string {
	if s.IsResident() {
		return s.UserID
	}
	return ""
}

// Resolver mapea (usuario, rol) a una residencia.
type Resolver interface {
	ResolveResidence(ctx context.Context, userID string, role repository.Role, requested string) (string, error)
}

type resolver struct {
	repos store.Repositories
}

func NewResolver(repos store.Repositories) Resolver {
	return &resolver{repos: repos}
}

func (r *resolver) ResolveResidence(ctx context.Context, userID string, role repository.Role, requested string) (string, error) {
	requested = strings.TrimSpace(requested)

	switch role {
	case repository.RoleAdmin:
		if requested == "" {
			return "", ErrResidenceRequired
		}
		res, err := r.repos.Residences().GetByID(ctx, requested)
		if err != nil {
			return "", err
		}
		return res.ID, nil

	case repository.RoleSyndic:
		res, err := r.repos.Residences().GetBySyndic(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrResidenceRequired
		}
		if err != nil {
			return "", fmt.Errorf("resolve syndic residence: %w", err)
		}
		if requested != "" && requested != res.ID {
			return "", repository.ErrForbidden
		}
		return res.ID, nil

	case repository.RoleResident, repository.RoleGuard:
		links, err := r.repos.Links().ListByProfile(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("resolve links: %w", err)
		}
		if len(links) == 0 {
			return "", ErrResidenceRequired
		}
		unverified := false
		for _, l := range links {
			if requested != "" && l.ResidenceID != requested {
				continue
			}
			if l.Verified {
				return l.ResidenceID, nil
			}
			unverified = true
		}
		if unverified {
			return "", ErrNotVerified
		}
		if requested != "" {
			return "", repository.ErrForbidden
		}
		return "", ErrResidenceRequired
	}
	return "", repository.ErrForbidden
}

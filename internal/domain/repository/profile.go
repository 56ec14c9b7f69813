package repository

import (
	"context"
	"time"
)

// Role es el rol de un perfil dentro del sistema.
type Role string

const (
	RoleSyndic   Role = "syndic"
	RoleResident Role = "resident"
	RoleGuard    Role = "guard"
	RoleAdmin    Role = "admin"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSyndic, RoleResident, RoleGuard, RoleAdmin:
		return true
	}
	return false
}

// Profile representa un usuario con su rol.
type Profile struct {
	ID            string
	Email         string
	PasswordHash  string
	FullName      string
	Phone         string
	Role          Role
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateProfileInput contiene los datos para crear un perfil.
type CreateProfileInput struct {
	Email         string
	PasswordHash  string // vacío = sin password (invitado por el syndic)
	FullName      string
	Phone         string
	Role          Role
	EmailVerified bool
}

// UpdateProfileInput contiene los campos actualizables de un perfil.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
}

// ListProfilesFilter opciones para listar perfiles.
type ListProfilesFilter struct {
	Role   Role   // vacío = todos
	Search string // email o nombre
	Limit  int    // Default 50, max 200
	Offset int
}

// ProfileRepository define operaciones sobre perfiles.
type ProfileRepository interface {
	// GetByID retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Profile, error)

	// GetByEmail busca por email normalizado (lowercase).
	GetByEmail(ctx context.Context, email string) (*Profile, error)

	// Create retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateProfileInput) (*Profile, error)

	Update(ctx context.Context, id string, input UpdateProfileInput) error
	SetRole(ctx context.Context, id string, role Role) error
	SetEmailVerified(ctx context.Context, id string, verified bool) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	List(ctx context.Context, filter ListProfilesFilter) ([]Profile, error)

	// CountByRole retorna la cantidad de perfiles por rol.
	CountByRole(ctx context.Context) (map[Role]int, error)
}

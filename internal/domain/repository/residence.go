package repository

import (
	"context"
	"time"
)

// Residence es un edificio/copropiedad administrado: el tenant del sistema.
type Residence struct {
	ID        string
	Name      string
	Address   string
	City      string
	SyndicID  *string // a lo sumo un syndic por residencia
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateResidenceInput datos para crear una residencia.
type CreateResidenceInput struct {
	Name     string
	Address  string
	City     string
	SyndicID *string
}

// UpdateResidenceInput campos actualizables.
type UpdateResidenceInput struct {
	Name    *string
	Address *string
	City    *string
}

// ListResidencesFilter opciones de listado.
type ListResidencesFilter struct {
	Search string
	Limit  int
	Offset int
}

// ResidenceRepository define operaciones sobre residencias.
type ResidenceRepository interface {
	GetByID(ctx context.Context, id string) (*Residence, error)

	// GetBySyndic retorna la residencia administrada por el perfil, o ErrNotFound.
	GetBySyndic(ctx context.Context, profileID string) (*Residence, error)

	List(ctx context.Context, filter ListResidencesFilter) ([]Residence, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, input CreateResidenceInput) (*Residence, error)
	Update(ctx context.Context, id string, input UpdateResidenceInput) error

	// SetSyndic asigna el syndic. Retorna ErrConflict si el perfil ya administra otra residencia.
	SetSyndic(ctx context.Context, residenceID, profileID string) error
}

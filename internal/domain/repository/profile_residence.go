package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// ProfileResidence vincula un perfil con una residencia y su departamento.
// CreditBalance guarda el saldo a favor que quedó de pagos anteriores.
type ProfileResidence struct {
	ID            string
	ProfileID     string
	ResidenceID   string
	Apartment     string
	Verified      bool
	CreditBalance money.Amount
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ResidentRow es un vínculo con los datos del perfil (fila del padrón).
type ResidentRow struct {
	ProfileResidence
	FullName string
	Email    string
	Phone    string
	Role     Role
}

// CreateLinkInput datos para vincular un perfil a una residencia.
type CreateLinkInput struct {
	ProfileID   string
	ResidenceID string
	Apartment   string
	Verified    bool
}

// RosterFilter filtros del padrón.
type RosterFilter struct {
	Verified *bool
	Role     Role
	Search   string
}

// ProfileResidenceRepository define operaciones sobre vínculos perfil-residencia.
type ProfileResidenceRepository interface {
	GetByID(ctx context.Context, id string) (*ProfileResidence, error)

	// Get busca el vínculo de un perfil en una residencia.
	Get(ctx context.Context, profileID, residenceID string) (*ProfileResidence, error)

	// ListByProfile ordena por fecha de creación ascendente.
	ListByProfile(ctx context.Context, profileID string) ([]ProfileResidence, error)

	ListByResidence(ctx context.Context, residenceID string, filter RosterFilter) ([]ResidentRow, error)

	// Create retorna ErrConflict si el vínculo ya existe.
	Create(ctx context.Context, input CreateLinkInput) (*ProfileResidence, error)

	SetVerified(ctx context.Context, id string, verified bool) error
	UpdateApartment(ctx context.Context, id, apartment string) error
	SetCredit(ctx context.Context, id string, credit money.Amount) error
	Delete(ctx context.Context, id string) error
}

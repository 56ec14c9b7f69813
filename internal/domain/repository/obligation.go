package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// ObligationStatus es el estado de pago de una cuota o contribución.
// "overdue" no se persiste: se deriva de la fecha de vencimiento.
type ObligationStatus string

const (
	ObligationUnpaid  ObligationStatus = "unpaid"
	ObligationPartial ObligationStatus = "partial"
	ObligationPaid    ObligationStatus = "paid"

	// ObligationOverdue sólo aparece en vistas derivadas y filtros.
	ObligationOverdue ObligationStatus = "overdue"
)

// ObligationKind distingue cuotas únicas de contribuciones recurrentes.
type ObligationKind string

const (
	KindFee          ObligationKind = "fee"
	KindContribution ObligationKind = "contribution"
)

// StatusFor calcula el estado persistible según lo pagado.
func StatusFor(amount, paid money.Amount) ObligationStatus {
	switch {
	case paid >= amount:
		return ObligationPaid
	case paid > 0:
		return ObligationPartial
	default:
		return ObligationUnpaid
	}
}

// IsOverdue indica si una obligación no saldada ya venció.
func IsOverdue(status ObligationStatus, due, now time.Time) bool {
	return status != ObligationPaid && due.Before(now)
}

// Fee es una cuota puntual (one-off) asignada a un residente.
type Fee struct {
	ID          string
	ResidenceID string
	ProfileID   string
	Title       string
	Description string
	Amount      money.Amount
	AmountPaid  money.Amount
	DueDate     time.Time
	Status      ObligationStatus
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// Outstanding es lo que resta pagar.
func (f Fee) Outstanding() money.Amount {
	if f.AmountPaid >= f.Amount {
		return 0
	}
	return f.Amount - f.AmountPaid
}

// Contribution es una contribución recurrente por período (YYYY-MM).
type Contribution struct {
	ID          string
	ResidenceID string
	ProfileID   string
	Period      string
	Amount      money.Amount
	AmountPaid  money.Amount
	DueDate     time.Time
	Status      ObligationStatus
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// Outstanding es lo que resta pagar.
func (c Contribution) Outstanding() money.Amount {
	if c.AmountPaid >= c.Amount {
		return 0
	}
	return c.Amount - c.AmountPaid
}

// ObligationFilter filtros comunes para cuotas y contribuciones.
// Status sólo acepta estados persistidos; "overdue" lo resuelve el servicio.
type ObligationFilter struct {
	ResidenceID string
	ProfileID   string
	Status      ObligationStatus
	Period      string
	Unsettled   bool // sólo unpaid/partial
}

// CreateFeeInput datos para crear una cuota.
type CreateFeeInput struct {
	ResidenceID string
	ProfileID   string
	Title       string
	Description string
	Amount      money.Amount
	DueDate     time.Time
}

// CreateContributionInput datos para crear una contribución.
type CreateContributionInput struct {
	ResidenceID string
	ProfileID   string
	Period      string
	Amount      money.Amount
	DueDate     time.Time
}

// PaymentUpdate es el nuevo estado de pago de una obligación.
type PaymentUpdate struct {
	AmountPaid money.Amount
	Status     ObligationStatus
	PaidAt     *time.Time
}

// FeeRepository define operaciones sobre cuotas.
type FeeRepository interface {
	GetByID(ctx context.Context, id string) (*Fee, error)

	// List ordena por due_date ascendente y luego created_at.
	List(ctx context.Context, filter ObligationFilter) ([]Fee, error)

	Create(ctx context.Context, input CreateFeeInput) (*Fee, error)
	UpdatePayment(ctx context.Context, id string, upd PaymentUpdate) error
	Delete(ctx context.Context, id string) error
}

// ContributionRepository define operaciones sobre contribuciones.
type ContributionRepository interface {
	GetByID(ctx context.Context, id string) (*Contribution, error)

	// List ordena por due_date ascendente y luego created_at.
	List(ctx context.Context, filter ObligationFilter) ([]Contribution, error)

	// Create retorna ErrConflict si ya existe la contribución del período para el perfil.
	Create(ctx context.Context, input CreateContributionInput) (*Contribution, error)

	UpdatePayment(ctx context.Context, id string, upd PaymentUpdate) error
}

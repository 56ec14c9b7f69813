package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// PaymentStatus es el estado de verificación de un pago declarado.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentMethod es el medio de pago declarado.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCheque   PaymentMethod = "cheque"
	MethodCard     PaymentMethod = "card"
)

// Valid indica si el método es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCheque, MethodCard:
		return true
	}
	return false
}

// Payment es un pago declarado por un residente y verificado por el syndic.
type Payment struct {
	ID              string
	ResidenceID     string
	ProfileID       string
	Amount          money.Amount
	Method          PaymentMethod
	Reference       string
	ProofURL        string
	Status          PaymentStatus
	RejectionReason string
	VerifiedBy      *string
	VerifiedAt      *time.Time
	CreditAfter     money.Amount // saldo a favor resultante de la verificación
	CreatedAt       time.Time
}

// PaymentAllocation registra cuánto de un pago se imputó a una obligación.
type PaymentAllocation struct {
	ID           string
	PaymentID    string
	Kind         ObligationKind
	ObligationID string
	Amount       money.Amount
	CreatedAt    time.Time
}

// CreatePaymentInput datos para declarar un pago.
type CreatePaymentInput struct {
	ResidenceID string
	ProfileID   string
	Amount      money.Amount
	Method      PaymentMethod
	Reference   string
	ProofURL    string
}

// PaymentFilter filtros de listado.
type PaymentFilter struct {
	ResidenceID string
	ProfileID   string
	Status      PaymentStatus
	Since       *time.Time // created_at >= Since
	Limit       int        // 0 = sin límite
}

// PaymentRepository define operaciones sobre pagos.
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*Payment, error)

	// List ordena por created_at descendente.
	List(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	Create(ctx context.Context, input CreatePaymentInput) (*Payment, error)

	// MarkVerified retorna ErrConflict si el pago no está pendiente.
	MarkVerified(ctx context.Context, id, verifierID string, creditAfter money.Amount, at time.Time) error

	// MarkRejected retorna ErrConflict si el pago no está pendiente.
	MarkRejected(ctx context.Context, id, reviewerID, reason string, at time.Time) error

	AddAllocations(ctx context.Context, allocations []PaymentAllocation) error
	ListAllocations(ctx context.Context, paymentID string) ([]PaymentAllocation, error)

	// AllocatedTo suma lo imputado por pagos verificados a una obligación.
	AllocatedTo(ctx context.Context, kind ObligationKind, obligationID string) (money.Amount, error)
}

package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// DeclarePaymentRequest ProfileID sólo lo usa el syndic (pago en efectivo en conserjería).
type DeclarePaymentRequest struct {
	ProfileID string       `json:"profileId,omitempty"`
	Amount    money.Amount `json:"amount"`
	Method    string       `json:"method"`
	Reference string       `json:"reference,omitempty"`
	ProofURL  string       `json:"proofUrl,omitempty"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason"`
}

type AllocationResponse struct {
	Kind         string       `json:"kind"`
	ObligationID string       `json:"obligationId"`
	Amount       money.Amount `json:"amount"`
}

type PaymentResponse struct {
	ID              string               `json:"id"`
	ResidenceID     string               `json:"residenceId"`
	ProfileID       string               `json:"profileId"`
	Amount          money.Amount         `json:"amount"`
	Method          string               `json:"method"`
	Reference       string               `json:"reference,omitempty"`
	ProofURL        string               `json:"proofUrl,omitempty"`
	Status          string               `json:"status"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	VerifiedBy      *string              `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time           `json:"verifiedAt,omitempty"`
	CreditAfter     money.Amount         `json:"creditAfter"`
	CreatedAt       time.Time            `json:"createdAt"`
	Allocations     []AllocationResponse `json:"allocations,omitempty"`
}

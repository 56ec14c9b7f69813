package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// CreateFeeRequest ProfileID o AllResidents (todos los residentes verificados).
type CreateFeeRequest struct {
	ProfileID    string       `json:"profileId,omitempty"`
	AllResidents bool         `json:"allResidents,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Amount       money.Amount `json:"amount"`
	DueDate      string       `json:"dueDate"` // YYYY-MM-DD
}

type FeeStatusRequest struct {
	Status string `json:"status"` // paid | unpaid
}

type GenerateContributionsRequest struct {
	Period string       `json:"period"` // YYYY-MM
	Amount money.Amount `json:"amount"`
	DueDay int          `json:"dueDay,omitempty"`
}

type GenerateContributionsResponse struct {
	Period  string `json:"period"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

type FeeResponse struct {
	ID          string       `json:"id"`
	ResidenceID string       `json:"residenceId"`
	ProfileID   string       `json:"profileId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Amount      money.Amount `json:"amount"`
	AmountPaid  money.Amount `json:"amountPaid"`
	Outstanding money.Amount `json:"outstanding"`
	DueDate     time.Time    `json:"dueDate"`
	Status      string       `json:"status"` // unpaid | partial | paid | overdue
	PaidAt      *time.Time   `json:"paidAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type ContributionResponse struct {
	ID          string       `json:"id"`
	ResidenceID string       `json:"residenceId"`
	ProfileID   string       `json:"profileId"`
	Period      string       `json:"period"`
	Amount      money.Amount `json:"amount"`
	AmountPaid  money.Amount `json:"amountPaid"`
	Outstanding money.Amount `json:"outstanding"`
	DueDate     time.Time    `json:"dueDate"`
	Status      string       `json:"status"`
	PaidAt      *time.Time   `json:"paidAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

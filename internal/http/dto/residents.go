package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

type AddResidentRequest struct {
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone,omitempty"`
	Apartment string `json:"apartment"`
}

type ApartmentPatch struct {
	Apartment string `json:"apartment"`
}

// ResidentResponse fila del padrón. Los campos financieros se omiten para guardias.
type ResidentResponse struct {
	LinkID        string        `json:"linkId"`
	ProfileID     string        `json:"profileId"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	Role          string        `json:"role"`
	Apartment     string        `json:"apartment"`
	Verified      bool          `json:"verified"`
	JoinedAt      time.Time     `json:"joinedAt"`
	Outstanding   *money.Amount `json:"outstanding,omitempty"`
	Credit        *money.Amount `json:"credit,omitempty"`
	PaymentStatus string        `json:"paymentStatus,omitempty"` // up_to_date | late
}

type ResidentDetailResponse struct {
	Resident      ResidentResponse       `json:"resident"`
	Fees          []FeeResponse          `json:"fees,omitempty"`
	Contributions []ContributionResponse `json:"contributions,omitempty"`
	Payments      []PaymentResponse      `json:"payments,omitempty"`
}

package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

type MonthlyPoint struct {
	Month     string       `json:"month"` // YYYY-MM
	Collected money.Amount `json:"collected"`
}

// ResidenceDashboard vista de syndic/guardia/admin sobre una residencia.
type ResidenceDashboard struct {
	ResidenceID       string            `json:"residenceId"`
	ResidentsTotal    int               `json:"residentsTotal"`
	ResidentsVerified int               `json:"residentsVerified"`
	ResidentsPending  int               `json:"residentsPending"`
	Expected          money.Amount      `json:"expected"`
	Collected         money.Amount      `json:"collected"`
	Outstanding       money.Amount      `json:"outstanding"`
	OverdueCount      int               `json:"overdueCount"`
	ComplianceRate    float64           `json:"complianceRate"`
	ExpensesTotal     money.Amount      `json:"expensesTotal"`
	Balance           money.Amount      `json:"balance"`
	OpenIncidents     int               `json:"openIncidents"`
	PendingComplaints int               `json:"pendingComplaints"`
	PendingPayments   int               `json:"pendingPayments"`
	RecentPayments    []PaymentResponse `json:"recentPayments"`
	Monthly           []MonthlyPoint    `json:"monthly"`
	GeneratedAt       time.Time         `json:"generatedAt"`
}

type NextDue struct {
	Kind    string       `json:"kind"`
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Amount  money.Amount `json:"amount"`
	DueDate time.Time    `json:"dueDate"`
}

// ResidentDashboard vista del residente sobre sus propias obligaciones.
type ResidentDashboard struct {
	ResidenceID    string       `json:"residenceId"`
	Paid           int          `json:"paid"`
	Unpaid         int          `json:"unpaid"`
	Overdue        int          `json:"overdue"`
	ComplianceRate float64      `json:"complianceRate"`
	Outstanding    money.Amount `json:"outstanding"`
	Credit         money.Amount `json:"credit"`
	NextDue        *NextDue     `json:"nextDue,omitempty"`
	OpenIncidents  int          `json:"openIncidents"`
	OpenComplaints int          `json:"openComplaints"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}

type AdminDashboard struct {
	Residences       int            `json:"residences"`
	UsersByRole      map[string]int `json:"usersByRole"`
	PendingDocuments int            `json:"pendingDocuments"`
	GeneratedAt      time.Time      `json:"generatedAt"`
}

package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// ─── Expenses ───

type CreateExpenseRequest struct {
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`
	Amount      money.Amount `json:"amount"`
	SpentAt     string       `json:"spentAt"` // YYYY-MM-DD
}

type ExpenseResponse struct {
	ID          string       `json:"id"`
	ResidenceID string       `json:"residenceId"`
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`
	Amount      money.Amount `json:"amount"`
	SpentAt     time.Time    `json:"spentAt"`
	CreatedBy   string       `json:"createdBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type CategoryTotal struct {
	Category string       `json:"category"`
	Total    money.Amount `json:"total"`
	Count    int          `json:"count"`
}

type ExpenseSummary struct {
	Month      string          `json:"month"`
	Total      money.Amount    `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// ─── Incidents ───

type ReportIncidentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type IncidentResponse struct {
	ID          string     `json:"id"`
	ResidenceID string     `json:"residenceId"`
	ReporterID  string     `json:"reporterId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ─── Complaints ───

type FileComplaintRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type RespondComplaintRequest struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

type ComplaintResponse struct {
	ID          string     `json:"id"`
	ResidenceID string     `json:"residenceId"`
	ProfileID   string     `json:"profileId"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ─── Documents ───

type SubmitDocumentRequest struct {
	ResidenceName string `json:"residenceName"`
	Address       string `json:"address"`
	City          string `json:"city"`
	FileKey       string `json:"fileKey"`
}

type RejectDocumentRequest struct {
	Note string `json:"note"`
}

type DocumentResponse struct {
	ID            string     `json:"id"`
	ProfileID     string     `json:"profileId"`
	ResidenceName string     `json:"residenceName"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	FileKey       string     `json:"fileKey"`
	Status        string     `json:"status"`
	ReviewNote    string     `json:"reviewNote,omitempty"`
	ReviewedBy    *string    `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	ResidenceID   *string    `json:"residenceId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type FileURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ─── Users (admin) ───

type SetRoleRequest struct {
	Role string `json:"role"`
}

type UserListResponse struct {
	Users  []ProfileResponse `json:"users"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// ─── Health ───

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

package repository

import (
	"context"
	"time"
)

// ComplaintStatus estado de un reclamo.
type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "pending"
	ComplaintInReview ComplaintStatus = "in_review"
	ComplaintResolved ComplaintStatus = "resolved"
	ComplaintRejected ComplaintStatus = "rejected"
)

// Terminal indica si el reclamo ya no admite cambios.
func (s ComplaintStatus) Terminal() bool {
	return s == ComplaintResolved || s == ComplaintRejected
}

// Valid indica si el estado es conocido.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInReview, ComplaintResolved, ComplaintRejected:
		return true
	}
	return false
}

// Complaint es un reclamo de un residente al syndic.
type Complaint struct {
	ID          string
	ResidenceID string
	ProfileID   string
	Subject     string
	Message     string
	Status      ComplaintStatus
	Response    string
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateComplaintInput datos para presentar un reclamo.
type CreateComplaintInput struct {
	ResidenceID string
	ProfileID   string
	Subject     string
	Message     string
}

// ComplaintFilter filtros de listado.
type ComplaintFilter struct {
	ResidenceID string
	ProfileID   string
	Status      ComplaintStatus
}

// ComplaintRepository define operaciones sobre reclamos.
type ComplaintRepository interface {
	GetByID(ctx context.Context, id string) (*Complaint, error)

	// List ordena por created_at descendente.
	List(ctx context.Context, filter ComplaintFilter) ([]Complaint, error)

	Create(ctx context.Context, input CreateComplaintInput) (*Complaint, error)
	Respond(ctx context.Context, id string, status ComplaintStatus, response string, at time.Time) error
}

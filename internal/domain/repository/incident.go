package repository

import (
	"context"
	"time"
)

// IncidentStatus estado de un incidente.
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "open"
	IncidentInProgress IncidentStatus = "in_progress"
	IncidentResolved   IncidentStatus = "resolved"
	IncidentClosed     IncidentStatus = "closed"
)

// IncidentPriority prioridad de un incidente.
type IncidentPriority string

const (
	PriorityLow    IncidentPriority = "low"
	PriorityMedium IncidentPriority = "medium"
	PriorityHigh   IncidentPriority = "high"
	PriorityUrgent IncidentPriority = "urgent"
)

// Valid indica si la prioridad es conocida.
func (p IncidentPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// CanTransition valida el flujo open -> in_progress -> resolved -> closed.
// Sólo se avanza un paso; closed es terminal.
func (s IncidentStatus) CanTransition(to IncidentStatus) bool {
	switch s {
	case IncidentOpen:
		return to == IncidentInProgress
	case IncidentInProgress:
		return to == IncidentResolved
	case IncidentResolved:
		return to == IncidentClosed
	}
	return false
}

// Incident es un problema reportado en la residencia.
type Incident struct {
	ID          string
	ResidenceID string
	ReporterID  string
	Title       string
	Description string
	Location    string
	Priority    IncidentPriority
	Status      IncidentStatus
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateIncidentInput datos para reportar un incidente.
type CreateIncidentInput struct {
	ResidenceID string
	ReporterID  string
	Title       string
	Description string
	Location    string
	Priority    IncidentPriority
}

// IncidentFilter filtros de listado.
type IncidentFilter struct {
	ResidenceID string
	ReporterID  string
	Status      IncidentStatus
	OnlyOpen    bool // open + in_progress
}

// IncidentRepository define operaciones sobre incidentes.
type IncidentRepository interface {
	GetByID(ctx context.Context, id string) (*Incident, error)

	// List ordena por created_at descendente.
	List(ctx context.Context, filter IncidentFilter) ([]Incident, error)

	Create(ctx context.Context, input CreateIncidentInput) (*Incident, error)
	UpdateStatus(ctx context.Context, id string, status IncidentStatus, resolvedAt *time.Time) error
}

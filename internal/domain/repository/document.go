package repository

import (
	"context"
	"time"
)

// DocumentStatus estado de revisión de un documento.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// DocumentSubmission es la solicitud de un usuario para administrar una residencia
// (acta de designación como syndic). Al aprobarse se crea la residencia.
type DocumentSubmission struct {
	ID            string
	ProfileID     string
	ResidenceName string
	Address       string
	City          string
	FileKey       string
	Status        DocumentStatus
	ReviewNote    string
	ReviewedBy    *string
	ReviewedAt    *time.Time
	ResidenceID   *string
	CreatedAt     time.Time
}

// CreateDocumentInput datos de una nueva solicitud.
type CreateDocumentInput struct {
	ProfileID     string
	ResidenceName string
	Address       string
	City          string
	FileKey       string
}

// DocumentReview resultado de la revisión.
type DocumentReview struct {
	Status      DocumentStatus
	Note        string
	ReviewerID  string
	At          time.Time
	ResidenceID *string
}

// DocumentFilter filtros de listado.
type DocumentFilter struct {
	ProfileID string
	Status    DocumentStatus
}

// DocumentRepository define operaciones sobre documentos enviados.
type DocumentRepository interface {
	GetByID(ctx context.Context, id string) (*DocumentSubmission, error)

	// List ordena por created_at descendente.
	List(ctx context.Context, filter DocumentFilter) ([]DocumentSubmission, error)

	Create(ctx context.Context, input CreateDocumentInput) (*DocumentSubmission, error)

	// Review retorna ErrConflict si el documento ya fue revisado.
	Review(ctx context.Context, id string, review DocumentReview) error
}

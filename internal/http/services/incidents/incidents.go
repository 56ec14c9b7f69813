// Package incidents maneja reportes de problemas en la residencia.
package incidents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

type Service interface {
	Report(ctx context.Context, scope access.Scope, in dto.ReportIncidentRequest) (*dto.IncidentResponse, error)
	List(ctx context.Context, scope access.Scope, status string) ([]dto.IncidentResponse, error)
	Get(ctx context.Context, scope access.Scope, id string) (*dto.IncidentResponse, error)
	UpdateStatus(ctx context.Context, scope access.Scope, id, status string) (*dto.IncidentResponse, error)
}

type Deps struct {
	Store store.Store
	Now   func() time.Time
}

type service struct {
	deps Deps
}

func New(d Deps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &service{deps: d}
}

func validStatus(s repository.IncidentStatus) bool {
	switch s {
	case repository.IncidentOpen, repository.IncidentInProgress, repository.IncidentResolved, repository.IncidentClosed:
		return true
	}
	return false
}

func (s *service) Report(ctx context.Context, scope access.Scope, in dto.ReportIncidentRequest) (*dto.IncidentResponse, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, ErrMissingFields
	}
	prio := repository.IncidentPriority(strings.ToLower(strings.TrimSpace(in.Priority)))
	if prio == "" {
		prio = repository.PriorityMedium
	}
	if !prio.Valid() {
		return nil, ErrInvalidPriority
	}
	i, err := s.deps.Store.Incidents().Create(ctx, repository.CreateIncidentInput{
		ResidenceID: scope.ResidenceID,
		ReporterID:  scope.UserID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Priority:    prio,
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("incident reported", logger.Layer("service"), logger.ResidenceID(scope.ResidenceID),
		logger.ID(i.ID), logger.String("priority", string(prio)))
	out := dto.Incident(*i)
	return &out, nil
}

func (s *service) List(ctx context.Context, scope access.Scope, status string) ([]dto.IncidentResponse, error) {
	st := repository.IncidentStatus(status)
	if st != "" && !validStatus(st) {
		return nil, ErrInvalidStatus
	}
	rows, err := s.deps.Store.Incidents().List(ctx, repository.IncidentFilter{
		ResidenceID: scope.ResidenceID,
		ReporterID:  scope.OwnerFilter(),
		Status:      st,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.IncidentResponse, 0, len(rows))
	for _, i := range rows {
		out = append(out, dto.Incident(i))
	}
	return out, nil
}

func (s *service) incidentIn(ctx context.Context, scope access.Scope, id string) (*repository.Incident, error) {
	i, err := s.deps.Store.Incidents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i.ResidenceID != scope.ResidenceID {
		return nil, repository.ErrNotFound
	}
	if owner := scope.OwnerFilter(); owner != "" && i.ReporterID != owner {
		return nil, repository.ErrNotFound
	}
	return i, nil
}

func (s *service) Get(ctx context.Context, scope access.Scope, id string) (*dto.IncidentResponse, error) {
	i, err := s.incidentIn(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	out := dto.Incident(*i)
	return &out, nil
}

// UpdateStatus aplica el flujo open -> in_progress -> resolved -> closed.
// resolved fija ResolvedAt y closed lo conserva.
func (s *service) UpdateStatus(ctx context.Context, scope access.Scope, id, status string) (*dto.IncidentResponse, error) {
	to := repository.IncidentStatus(status)
	if !validStatus(to) {
		return nil, ErrInvalidStatus
	}
	i, err := s.incidentIn(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if i.Status == to {
		out := dto.Incident(*i)
		return &out, nil
	}
	if !i.Status.CanTransition(to) {
		return nil, repository.ErrInvalidTransition
	}

	now := s.deps.Now().UTC()
	var resolvedAt *time.Time
	switch to {
	case repository.IncidentResolved:
		resolvedAt = &now
	case repository.IncidentClosed:
		resolvedAt = i.ResolvedAt
	}
	if err := s.deps.Store.Incidents().UpdateStatus(ctx, i.ID, to, resolvedAt); err != nil {
		return nil, err
	}
	logger.From(ctx).Info("incident status changed", logger.Layer("service"), logger.ID(i.ID),
		logger.String("from", string(i.Status)), logger.String("to", status))

	i.Status, i.ResolvedAt, i.UpdatedAt = to, resolvedAt, now
	out := dto.Incident(*i)
	return &out, nil
}

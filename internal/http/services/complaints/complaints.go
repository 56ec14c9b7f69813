// Package complaints maneja reclamos de residentes al syndic.
package complaints

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
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidStatus = errors.New("invalid status")
)

type Service interface {
	File(ctx context.Context, scope access.Scope, in dto.FileComplaintRequest) (*dto.ComplaintResponse, error)
	List(ctx context.Context, scope access.Scope, status string) ([]dto.ComplaintResponse, error)
	Respond(ctx context.Context, scope access.Scope, id string, in dto.RespondComplaintRequest) (*dto.ComplaintResponse, error)
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

func (s *service) File(ctx context.Context, scope access.Scope, in dto.FileComplaintRequest) (*dto.ComplaintResponse, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if in.Subject == "" || in.Message == "" {
		return nil, ErrMissingFields
	}
	c, err := s.deps.Store.Complaints().Create(ctx, repository.CreateComplaintInput{
		ResidenceID: scope.ResidenceID,
		ProfileID:   scope.UserID,
		Subject:     in.Subject,
		Message:     in.Message,
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("complaint filed", logger.Layer("service"), logger.ResidenceID(scope.ResidenceID), logger.ID(c.ID))
	out := dto.Complaint(*c)
	return &out, nil
}

func (s *service) List(ctx context.Context, scope access.Scope, status string) ([]dto.ComplaintResponse, error) {
	st := repository.ComplaintStatus(status)
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}
	rows, err := s.deps.Store.Complaints().List(ctx, repository.ComplaintFilter{
		ResidenceID: scope.ResidenceID,
		ProfileID:   scope.OwnerFilter(),
		Status:      st,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComplaintResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.Complaint(c))
	}
	return out, nil
}

// Respond cambia el estado y guarda la respuesta. resolved y rejected son finales.
func (s *service) Respond(ctx context.Context, scope access.Scope, id string, in dto.RespondComplaintRequest) (*dto.ComplaintResponse, error) {
	st := repository.ComplaintStatus(in.Status)
	if !st.Valid() || st == repository.ComplaintPending {
		return nil, ErrInvalidStatus
	}
	c, err := s.deps.Store.Complaints().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ResidenceID != scope.ResidenceID {
		return nil, repository.ErrNotFound
	}
	if c.Status.Terminal() {
		return nil, repository.ErrInvalidTransition
	}

	now := s.deps.Now().UTC()
	response := strings.TrimSpace(in.Response)
	if err := s.deps.Store.Complaints().Respond(ctx, c.ID, st, response, now); err != nil {
		return nil, err
	}
	logger.From(ctx).Info("complaint answered", logger.Layer("service"), logger.ID(c.ID), logger.String("status", in.Status))

	c.Status, c.Response, c.RespondedAt = st, response, &now
	out := dto.Complaint(*c)
	return &out, nil
}

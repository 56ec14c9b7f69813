// Package residences administra el alta de residencias (admin) y las
// solicitudes de ingreso de residentes.
package residences

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	// ErrSyndicTaken la residencia ya tiene otro syndic o el perfil ya administra otra.
	ErrSyndicTaken = errors.New("residence already has a syndic")
	ErrInvalidRole = errors.New("profile cannot become syndic")
)

type Service interface {
	List(ctx context.Context, search string, limit, offset int) ([]dto.ResidenceResponse, error)
	Get(ctx context.Context, id string) (*dto.ResidenceResponse, error)
	Create(ctx context.Context, in dto.ResidenceRequest) (*dto.ResidenceResponse, error)
	Update(ctx context.Context, id string, in dto.ResidencePatch) (*dto.ResidenceResponse, error)
	AssignSyndic(ctx context.Context, residenceID, profileID string) (*dto.ResidenceResponse, error)
	RequestJoin(ctx context.Context, profileID, residenceID string, in dto.JoinRequest) (*dto.LinkResponse, error)
}

type Deps struct {
	Store store.Store
	Roles access.RoleLookup // nil = sin cache de roles que invalidar
}

type service struct {
	deps Deps
}

func New(d Deps) Service {
	return &service{deps: d}
}

func (s *service) List(ctx context.Context, search string, limit, offset int) ([]dto.ResidenceResponse, error) {
	rows, err := s.deps.Store.Residences().List(ctx, repository.ListResidencesFilter{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ResidenceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.Residence(r))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*dto.ResidenceResponse, error) {
	r, err := s.deps.Store.Residences().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.Residence(*r)
	return &out, nil
}

func (s *service) Create(ctx context.Context, in dto.ResidenceRequest) (*dto.ResidenceResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrMissingFields
	}
	r, err := s.deps.Store.Residences().Create(ctx, repository.CreateResidenceInput{
		Name:    in.Name,
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("residence created", logger.Layer("service"), logger.ResidenceID(r.ID))
	out := dto.Residence(*r)
	return &out, nil
}

func (s *service) Update(ctx context.Context, id string, in dto.ResidencePatch) (*dto.ResidenceResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrMissingFields
	}
	err := s.deps.Store.Residences().Update(ctx, id, repository.UpdateResidenceInput{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AssignSyndic asigna y promueve al perfil en una sola transacción.
// Un admin no puede ser syndic.
func (s *service) AssignSyndic(ctx context.Context, residenceID, profileID string) (*dto.ResidenceResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Residences.AssignSyndic"), logger.ResidenceID(residenceID))

	if strings.TrimSpace(profileID) == "" {
		return nil, ErrMissingFields
	}
	err := s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		res, err := tx.Residences().GetByID(ctx, residenceID)
		if err != nil {
			return err
		}
		if res.SyndicID != nil && *res.SyndicID != profileID {
			return ErrSyndicTaken
		}
		p, err := tx.Profiles().GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if p.Role == repository.RoleAdmin {
			return ErrInvalidRole
		}
		if err := tx.Residences().SetSyndic(ctx, residenceID, profileID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrSyndicTaken
			}
			return err
		}
		if p.Role != repository.RoleSyndic {
			return tx.Profiles().SetRole(ctx, profileID, repository.RoleSyndic)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.deps.Roles != nil {
		s.deps.Roles.Forget(ctx, profileID)
	}
	log.Info("syndic assigned", logger.UserID(profileID))
	return s.Get(ctx, residenceID)
}

func (s *service) RequestJoin(ctx context.Context, profileID, residenceID string, in dto.JoinRequest) (*dto.LinkResponse, error) {
	in.Apartment = strings.TrimSpace(in.Apartment)
	if in.Apartment == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.deps.Store.Residences().GetByID(ctx, residenceID); err != nil {
		return nil, err
	}
	l, err := s.deps.Store.Links().Create(ctx, repository.CreateLinkInput{
		ProfileID:   profileID,
		ResidenceID: residenceID,
		Apartment:   in.Apartment,
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("join requested", logger.Layer("service"), logger.ResidenceID(residenceID), logger.UserID(profileID))
	out := dto.Link(*l)
	return &out, nil
}

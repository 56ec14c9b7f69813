// Package fees gestiona cuotas puntuales y contribuciones mensuales.
package fees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/helpers"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidAmount   = errors.New("amount must be >= 0")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPeriod   = errors.New("invalid period, expected YYYY-MM")
	ErrNotMember       = errors.New("profile is not a verified member of the residence")
	ErrNoTargets       = errors.New("no verified residents")
	ErrAmbiguousTarget = errors.New("profileId and allResidents are exclusive")
	ErrHasAllocations  = errors.New("fee has verified payments allocated")
)

// ListFilter filtros de listado. Status admite "overdue".
type ListFilter struct {
	ProfileID string
	Status    string
	Period    string
}

type Service interface {
	ListFees(ctx context.Context, scope access.Scope, f ListFilter) ([]dto.FeeResponse, error)
	CreateFee(ctx context.Context, scope access.Scope, in dto.CreateFeeRequest) ([]dto.FeeResponse, error)
	UpdateFeeStatus(ctx context.Context, scope access.Scope, id, status string) (*dto.FeeResponse, error)
	DeleteFee(ctx context.Context, scope access.Scope, id string) error

	ListContributions(ctx context.Context, scope access.Scope, f ListFilter) ([]dto.ContributionResponse, error)
	GenerateContributions(ctx context.Context, scope access.Scope, in dto.GenerateContributionsRequest) (*dto.GenerateContributionsResponse, error)
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

// obligationFilter traduce el filtro de la API al del repositorio.
// "overdue" se resuelve después, sobre las no saldadas.
func obligationFilter(scope access.Scope, f ListFilter) (repository.ObligationFilter, bool, error) {
	out := repository.ObligationFilter{ResidenceID: scope.ResidenceID, ProfileID: f.ProfileID, Period: f.Period}
	if owner := scope.OwnerFilter(); owner != "" {
		out.ProfileID = owner
	}
	switch repository.ObligationStatus(f.Status) {
	case "":
	case repository.ObligationOverdue:
		out.Unsettled = true
		return out, true, nil
	case repository.ObligationUnpaid, repository.ObligationPartial, repository.ObligationPaid:
		out.Status = repository.ObligationStatus(f.Status)
	default:
		return out, false, ErrInvalidStatus
	}
	return out, false, nil
}

func (s *service) ListFees(ctx context.Context, scope access.Scope, f ListFilter) ([]dto.FeeResponse, error) {
	filter, onlyOverdue, err := obligationFilter(scope, f)
	if err != nil {
		return nil, err
	}
	rows, err := s.deps.Store.Fees().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.deps.Now()
	out := make([]dto.FeeResponse, 0, len(rows))
	for _, fe := range rows {
		if onlyOverdue && !repository.IsOverdue(fe.Status, fe.DueDate, now) {
			continue
		}
		out = append(out, dto.Fee(fe, now))
	}
	return out, nil
}

// verifiedMembers retorna los residentes verificados de la residencia.
func verifiedMembers(ctx context.Context, repos store.Repositories, residenceID string) ([]repository.ResidentRow, error) {
	verified := true
	return repos.Links().ListByResidence(ctx, residenceID, repository.RosterFilter{Verified: &verified, Role: repository.RoleResident})
}

func (s *service) CreateFee(ctx context.Context, scope access.Scope, in dto.CreateFeeRequest) ([]dto.FeeResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Fees.CreateFee"), logger.ResidenceID(scope.ResidenceID))

	in.Title = strings.TrimSpace(in.Title)
	in.ProfileID = strings.TrimSpace(in.ProfileID)
	if in.Title == "" || in.DueDate == "" || (in.ProfileID == "" && !in.AllResidents) {
		return nil, ErrMissingFields
	}
	if in.ProfileID != "" && in.AllResidents {
		return nil, ErrAmbiguousTarget
	}
	if in.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	due, err := helpers.ParseDate(in.DueDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var created []repository.Fee
	err = s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		var targets []string
		if in.AllResidents {
			rows, err := verifiedMembers(ctx, tx, scope.ResidenceID)
			if err != nil {
				return err
			}
			for _, r := range rows {
				targets = append(targets, r.ProfileID)
			}
			if len(targets) == 0 {
				return ErrNoTargets
			}
		} else {
			l, err := tx.Links().Get(ctx, in.ProfileID, scope.ResidenceID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && !l.Verified) {
				return ErrNotMember
			}
			if err != nil {
				return err
			}
			targets = []string{in.ProfileID}
		}

		for _, pid := range targets {
			fe, err := tx.Fees().Create(ctx, repository.CreateFeeInput{
				ResidenceID: scope.ResidenceID,
				ProfileID:   pid,
				Title:       in.Title,
				Description: strings.TrimSpace(in.Description),
				Amount:      in.Amount,
				DueDate:     due,
			})
			if err != nil {
				return err
			}
			created = append(created, *fe)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("fees created", logger.Count(len(created)), logger.Amount(int64(in.Amount)))

	now := s.deps.Now()
	out := make([]dto.FeeResponse, 0, len(created))
	for _, fe := range created {
		out = append(out, dto.Fee(fe, now))
	}
	return out, nil
}

func (s *service) feeIn(ctx context.Context, scope access.Scope, id string) (*repository.Fee, error) {
	fe, err := s.deps.Store.Fees().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fe.ResidenceID != scope.ResidenceID {
		return nil, repository.ErrNotFound
	}
	return fe, nil
}

// UpdateFeeStatus marca manualmente una cuota como pagada o impaga (pago fuera del sistema).
// No se puede volver a impaga una cuota con pagos verificados imputados.
func (s *service) UpdateFeeStatus(ctx context.Context, scope access.Scope, id, status string) (*dto.FeeResponse, error) {
	fe, err := s.feeIn(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	var upd repository.PaymentUpdate
	switch repository.ObligationStatus(status) {
	case repository.ObligationPaid:
		at := s.deps.Now().UTC()
		upd = repository.PaymentUpdate{AmountPaid: fe.Amount, Status: repository.ObligationPaid, PaidAt: &at}
	case repository.ObligationUnpaid:
		upd = repository.PaymentUpdate{AmountPaid: 0, Status: repository.ObligationUnpaid}
	default:
		return nil, ErrInvalidStatus
	}
	err = s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		if upd.Status == repository.ObligationUnpaid {
			if err := noAllocations(ctx, tx, fe.ID); err != nil {
				return err
			}
		}
		return tx.Fees().UpdatePayment(ctx, fe.ID, upd)
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("fee status changed", logger.Layer("service"), logger.ID(fe.ID), logger.String("status", status))

	fe.AmountPaid, fe.Status, fe.PaidAt = upd.AmountPaid, upd.Status, upd.PaidAt
	out := dto.Fee(*fe, s.deps.Now())
	return &out, nil
}

// DeleteFee borra una cuota sin pagos imputados.
func (s *service) DeleteFee(ctx context.Context, scope access.Scope, id string) error {
	fe, err := s.feeIn(ctx, scope, id)
	if err != nil {
		return err
	}
	return s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		if err := noAllocations(ctx, tx, fe.ID); err != nil {
			return err
		}
		return tx.Fees().Delete(ctx, fe.ID)
	})
}

func noAllocations(ctx context.Context, tx store.Repositories, feeID string) error {
	sum, err := tx.Payments().AllocatedTo(ctx, repository.KindFee, feeID)
	if err != nil {
		return err
	}
	if sum > 0 {
		return ErrHasAllocations
	}
	return nil
}

func (s *service) ListContributions(ctx context.Context, scope access.Scope, f ListFilter) ([]dto.ContributionResponse, error) {
	if f.Period != "" {
		if _, err := helpers.ParsePeriod(f.Period); err != nil {
			return nil, ErrInvalidPeriod
		}
	}
	filter, onlyOverdue, err := obligationFilter(scope, f)
	if err != nil {
		return nil, err
	}
	rows, err := s.deps.Store.Contributions().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.deps.Now()
	out := make([]dto.ContributionResponse, 0, len(rows))
	for _, c := range rows {
		if onlyOverdue && !repository.IsOverdue(c.Status, c.DueDate, now) {
			continue
		}
		out = append(out, dto.Contribution(c, now))
	}
	return out, nil
}

// GenerateContributions crea la contribución del período para cada residente
// verificado que aún no la tenga. Repetirla no duplica.
func (s *service) GenerateContributions(ctx context.Context, scope access.Scope, in dto.GenerateContributionsRequest) (*dto.GenerateContributionsResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Fees.GenerateContributions"),
		logger.ResidenceID(scope.ResidenceID), logger.Period(in.Period))

	start, err := helpers.ParsePeriod(in.Period)
	if err != nil {
		return nil, ErrInvalidPeriod
	}
	if in.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	day := in.DueDay
	switch {
	case day <= 0:
		day = 10
	case day > 28:
		day = 28
	}
	due := time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, time.UTC)

	out := &dto.GenerateContributionsResponse{Period: in.Period}
	err = s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		members, err := verifiedMembers(ctx, tx, scope.ResidenceID)
		if err != nil {
			return err
		}
		existing, err := tx.Contributions().List(ctx, repository.ObligationFilter{ResidenceID: scope.ResidenceID, Period: in.Period})
		if err != nil {
			return err
		}
		has := make(map[string]bool, len(existing))
		for _, c := range existing {
			has[c.ProfileID] = true
		}

		for _, m := range members {
			if has[m.ProfileID] {
				out.Skipped++
				continue
			}
			_, err := tx.Contributions().Create(ctx, repository.CreateContributionInput{
				ResidenceID: scope.ResidenceID,
				ProfileID:   m.ProfileID,
				Period:      in.Period,
				Amount:      in.Amount,
				DueDate:     due,
			})
			if err != nil {
				return fmt.Errorf("contribution for %s: %w", m.ProfileID, err)
			}
			out.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("contributions generated", logger.Count(out.Created), logger.Int("skipped", out.Skipped))
	return out, nil
}

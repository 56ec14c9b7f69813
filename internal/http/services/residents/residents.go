// Package residents maneja el padrón de una residencia.
package residents

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email")
)

// Estado de pago de una fila del padrón.
const (
	StatusUpToDate = "up_to_date"
	StatusLate     = "late"
)

// Filter filtros del listado.
type Filter struct {
	Verified *bool
	Search   string
}

type Service interface {
	List(ctx context.Context, scope access.Scope, f Filter) ([]dto.ResidentResponse, error)
	Get(ctx context.Context, scope access.Scope, profileID string) (*dto.ResidentDetailResponse, error)
	Add(ctx context.Context, scope access.Scope, in dto.AddResidentRequest) (*dto.ResidentResponse, error)
	Verify(ctx context.Context, scope access.Scope, linkID string) error
	UpdateApartment(ctx context.Context, scope access.Scope, linkID, apartment string) error
	Remove(ctx context.Context, scope access.Scope, linkID string) error
}

type Deps struct {
	Store   store.Store
	Mailer  email.Mailer
	BaseURL string // base de los links de invitación
	Now     func() time.Time
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

// balance resumen de deuda de un perfil.
type balance struct {
	outstanding money.Amount
	late        bool
}

// balances agrupa las obligaciones no saldadas de la residencia por perfil.
func (s *service) balances(ctx context.Context, residenceID string) (map[string]*balance, error) {
	now := s.deps.Now()
	f := repository.ObligationFilter{ResidenceID: residenceID, Unsettled: true}

	fees, err := s.deps.Store.Fees().List(ctx, f)
	if err != nil {
		return nil, err
	}
	contribs, err := s.deps.Store.Contributions().List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := map[string]*balance{}
	add := func(profileID string, due time.Time, status repository.ObligationStatus, outstanding money.Amount) {
		b := out[profileID]
		if b == nil {
			b = &balance{}
			out[profileID] = b
		}
		b.outstanding += outstanding
		if repository.IsOverdue(status, due, now) {
			b.late = true
		}
	}
	for _, fe := range fees {
		add(fe.ProfileID, fe.DueDate, fe.Status, fe.Outstanding())
	}
	for _, c := range contribs {
		add(c.ProfileID, c.DueDate, c.Status, c.Outstanding())
	}
	return out, nil
}

func row(r repository.ResidentRow) dto.ResidentResponse {
	return dto.ResidentResponse{
		LinkID:    r.ID,
		ProfileID: r.ProfileID,
		FullName:  r.FullName,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      string(r.Role),
		Apartment: r.Apartment,
		Verified:  r.Verified,
		JoinedAt:  r.CreatedAt,
	}
}

func withBalance(out *dto.ResidentResponse, credit money.Amount, b *balance) {
	outstanding := money.Amount(0)
	status := StatusUpToDate
	if b != nil {
		outstanding = b.outstanding
		if b.late {
			status = StatusLate
		}
	}
	out.Outstanding = &outstanding
	out.Credit = &credit
	out.PaymentStatus = status
}

func (s *service) List(ctx context.Context, scope access.Scope, f Filter) ([]dto.ResidentResponse, error) {
	rows, err := s.deps.Store.Links().ListByResidence(ctx, scope.ResidenceID, repository.RosterFilter{
		Verified: f.Verified,
		Search:   f.Search,
	})
	if err != nil {
		return nil, err
	}

	// los guardias ven el padrón sin columnas financieras
	financial := scope.Role != repository.RoleGuard
	var bal map[string]*balance
	if financial {
		if bal, err = s.balances(ctx, scope.ResidenceID); err != nil {
			return nil, err
		}
	}

	out := make([]dto.ResidentResponse, 0, len(rows))
	for _, r := range rows {
		item := row(r)
		if financial {
			withBalance(&item, r.CreditBalance, bal[r.ProfileID])
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, scope access.Scope, profileID string) (*dto.ResidentDetailResponse, error) {
	link, err := s.deps.Store.Links().Get(ctx, profileID, scope.ResidenceID)
	if err != nil {
		return nil, err
	}
	p, err := s.deps.Store.Profiles().GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	item := row(repository.ResidentRow{ProfileResidence: *link, FullName: p.FullName, Email: p.Email, Phone: p.Phone, Role: p.Role})
	if scope.Role == repository.RoleGuard {
		return &dto.ResidentDetailResponse{Resident: item}, nil
	}

	now := s.deps.Now()
	f := repository.ObligationFilter{ResidenceID: scope.ResidenceID, ProfileID: profileID}
	fees, err := s.deps.Store.Fees().List(ctx, f)
	if err != nil {
		return nil, err
	}
	contribs, err := s.deps.Store.Contributions().List(ctx, f)
	if err != nil {
		return nil, err
	}
	payments, err := s.deps.Store.Payments().List(ctx, repository.PaymentFilter{ResidenceID: scope.ResidenceID, ProfileID: profileID})
	if err != nil {
		return nil, err
	}

	b := &balance{}
	out := &dto.ResidentDetailResponse{
		Fees:          make([]dto.FeeResponse, 0, len(fees)),
		Contributions: make([]dto.ContributionResponse, 0, len(contribs)),
		Payments:      make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, fe := range fees {
		out.Fees = append(out.Fees, dto.Fee(fe, now))
		b.outstanding += fe.Outstanding()
		b.late = b.late || repository.IsOverdue(fe.Status, fe.DueDate, now)
	}
	for _, c := range contribs {
		out.Contributions = append(out.Contributions, dto.Contribution(c, now))
		b.outstanding += c.Outstanding()
		b.late = b.late || repository.IsOverdue(c.Status, c.DueDate, now)
	}
	for _, pm := range payments {
		out.Payments = append(out.Payments, dto.Payment(pm, nil))
	}
	withBalance(&item, link.CreditBalance, b)
	out.Resident = item
	return out, nil
}

// Add crea el perfil si no existe y lo vincula ya verificado.
// La invitación por email es best-effort.
func (s *service) Add(ctx context.Context, scope access.Scope, in dto.AddResidentRequest) (*dto.ResidentResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Residents.Add"), logger.ResidenceID(scope.ResidenceID))

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Apartment = strings.TrimSpace(in.Apartment)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" || in.Apartment == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	var (
		profile *repository.Profile
		link    *repository.ProfileResidence
		res     *repository.Residence
	)
	err := s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		var err error
		if res, err = tx.Residences().GetByID(ctx, scope.ResidenceID); err != nil {
			return err
		}
		profile, err = tx.Profiles().GetByEmail(ctx, in.Email)
		if errors.Is(err, repository.ErrNotFound) {
			if in.FullName == "" {
				return ErrMissingFields
			}
			profile, err = tx.Profiles().Create(ctx, repository.CreateProfileInput{
				Email:    in.Email,
				FullName: in.FullName,
				Phone:    strings.TrimSpace(in.Phone),
				Role:     repository.RoleResident,
			})
		}
		if err != nil {
			return err
		}
		link, err = tx.Links().Create(ctx, repository.CreateLinkInput{
			ProfileID:   profile.ID,
			ResidenceID: scope.ResidenceID,
			Apartment:   in.Apartment,
			Verified:    true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log = log.With(logger.UserID(profile.ID))

	invite := strings.TrimRight(s.deps.BaseURL, "/") + "/login?email=" + url.QueryEscape(profile.Email)
	if err := s.deps.Mailer.SendInvitation(ctx, email.Recipient{Email: profile.Email, Name: profile.FullName}, res.Name, link.Apartment, invite); err != nil {
		log.Warn("invitation email failed", logger.Err(err))
	}
	log.Info("resident added")

	out := row(repository.ResidentRow{ProfileResidence: *link, FullName: profile.FullName, Email: profile.Email, Phone: profile.Phone, Role: profile.Role})
	return &out, nil
}

// linkIn busca un vínculo y verifica que pertenezca a la residencia del scope.
func (s *service) linkIn(ctx context.Context, scope access.Scope, linkID string) (*repository.ProfileResidence, error) {
	l, err := s.deps.Store.Links().GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if l.ResidenceID != scope.ResidenceID {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (s *service) Verify(ctx context.Context, scope access.Scope, linkID string) error {
	l, err := s.linkIn(ctx, scope, linkID)
	if err != nil {
		return err
	}
	if l.Verified {
		return nil
	}
	if err := s.deps.Store.Links().SetVerified(ctx, l.ID, true); err != nil {
		return err
	}
	logger.From(ctx).Info("resident verified", logger.Layer("service"), logger.ResidenceID(scope.ResidenceID), logger.UserID(l.ProfileID))
	return nil
}

func (s *service) UpdateApartment(ctx context.Context, scope access.Scope, linkID, apartment string) error {
	apartment = strings.TrimSpace(apartment)
	if apartment == "" {
		return ErrMissingFields
	}
	l, err := s.linkIn(ctx, scope, linkID)
	if err != nil {
		return err
	}
	return s.deps.Store.Links().UpdateApartment(ctx, l.ID, apartment)
}

func (s *service) Remove(ctx context.Context, scope access.Scope, linkID string) error {
	l, err := s.linkIn(ctx, scope, linkID)
	if err != nil {
		return err
	}
	if err := s.deps.Store.Links().Delete(ctx, l.ID); err != nil {
		return err
	}
	logger.From(ctx).Info("resident removed", logger.Layer("service"), logger.ResidenceID(scope.ResidenceID), logger.UserID(l.ProfileID))
	return nil
}

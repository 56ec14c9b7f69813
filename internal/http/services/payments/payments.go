// Package payments maneja la declaración de pagos y su verificación por el syndic.
// Verificar un pago lo imputa a las obligaciones pendientes del residente.
package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/audit"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidAmount   = errors.New("amount must be > 0")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrNotMember       = errors.New("profile is not a verified member of the residence")
	ErrAlreadyReviewed = errors.New("payment already reviewed")
)

type Service interface {
	Declare(ctx context.Context, scope access.Scope, in dto.DeclarePaymentRequest) (*dto.PaymentResponse, error)
	List(ctx context.Context, scope access.Scope, status string) ([]dto.PaymentResponse, error)
	Get(ctx context.Context, scope access.Scope, id string) (*dto.PaymentResponse, error)
	Verify(ctx context.Context, scope access.Scope, id string) (*dto.PaymentResponse, error)
	Reject(ctx context.Context, scope access.Scope, id, reason string) (*dto.PaymentResponse, error)
}

type Deps struct {
	Store   store.Store
	Mailer  email.Mailer
	Metrics *metrics.Metrics // nil = sin métricas
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

func (s *service) Declare(ctx context.Context, scope access.Scope, in dto.DeclarePaymentRequest) (*dto.PaymentResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Payments.Declare"), logger.ResidenceID(scope.ResidenceID))

	// el residente declara lo suyo; el syndic puede registrar un pago en nombre de otro
	profileID := scope.UserID
	if scope.Manages() {
		profileID = strings.TrimSpace(in.ProfileID)
		if profileID == "" {
			return nil, ErrMissingFields
		}
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	method := repository.PaymentMethod(strings.ToLower(strings.TrimSpace(in.Method)))
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}

	link, err := s.deps.Store.Links().Get(ctx, profileID, scope.ResidenceID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !link.Verified) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, err
	}

	p, err := s.deps.Store.Payments().Create(ctx, repository.CreatePaymentInput{
		ResidenceID: scope.ResidenceID,
		ProfileID:   profileID,
		Amount:      in.Amount,
		Method:      method,
		Reference:   strings.TrimSpace(in.Reference),
		ProofURL:    strings.TrimSpace(in.ProofURL),
	})
	if err != nil {
		return nil, err
	}
	log.Info("payment declared", logger.PaymentID(p.ID), logger.UserID(profileID), logger.Amount(int64(p.Amount)))
	out := dto.Payment(*p, nil)
	return &out, nil
}

func (s *service) List(ctx context.Context, scope access.Scope, status string) ([]dto.PaymentResponse, error) {
	st := repository.PaymentStatus(status)
	switch st {
	case "", repository.PaymentPending, repository.PaymentVerified, repository.PaymentRejected:
	default:
		return nil, ErrInvalidStatus
	}
	rows, err := s.deps.Store.Payments().List(ctx, repository.PaymentFilter{
		ResidenceID: scope.ResidenceID,
		ProfileID:   scope.OwnerFilter(),
		Status:      st,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, dto.Payment(p, nil))
	}
	return out, nil
}

// paymentIn carga el pago y aplica el scope: otra residencia u otro residente = no existe.
func paymentIn(ctx context.Context, repos store.Repositories, scope access.Scope, id string) (*repository.Payment, error) {
	p, err := repos.Payments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ResidenceID != scope.ResidenceID {
		return nil, repository.ErrNotFound
	}
	if owner := scope.OwnerFilter(); owner != "" && p.ProfileID != owner {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, scope access.Scope, id string) (*dto.PaymentResponse, error) {
	p, err := paymentIn(ctx, s.deps.Store, scope, id)
	if err != nil {
		return nil, err
	}
	allocs, err := s.deps.Store.Payments().ListAllocations(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := dto.Payment(*p, allocs)
	return &out, nil
}

// outstanding junta cuotas y contribuciones no saldadas del residente.
func outstanding(ctx context.Context, tx store.Repositories, residenceID, profileID string) ([]Obligation, error) {
	f := repository.ObligationFilter{ResidenceID: residenceID, ProfileID: profileID, Unsettled: true}
	fees, err := tx.Fees().List(ctx, f)
	if err != nil {
		return nil, err
	}
	contribs, err := tx.Contributions().List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Obligation, 0, len(fees)+len(contribs))
	for _, fe := range fees {
		out = append(out, Obligation{Kind: repository.KindFee, ID: fe.ID, Label: fe.Title,
			DueDate: fe.DueDate, CreatedAt: fe.CreatedAt, Amount: fe.Amount, Paid: fe.AmountPaid})
	}
	for _, c := range contribs {
		out = append(out, Obligation{Kind: repository.KindContribution, ID: c.ID, Label: "Contribution " + c.Period,
			DueDate: c.DueDate, CreatedAt: c.CreatedAt, Amount: c.Amount, Paid: c.AmountPaid})
	}
	return out, nil
}

// Verify imputa el pago dentro de una transacción: obligaciones, crédito,
// estado del pago y registro de imputaciones se confirman juntos.
func (s *service) Verify(ctx context.Context, scope access.Scope, id string) (*dto.PaymentResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Payments.Verify"),
		logger.ResidenceID(scope.ResidenceID), logger.PaymentID(id))

	now := s.deps.Now().UTC()
	var (
		payment *repository.Payment
		result  AllocationResult
		allocs  []repository.PaymentAllocation
	)
	err := s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		var err error
		if payment, err = paymentIn(ctx, tx, scope, id); err != nil {
			return err
		}
		if payment.Status != repository.PaymentPending {
			return ErrAlreadyReviewed
		}
		link, err := tx.Links().Get(ctx, payment.ProfileID, payment.ResidenceID)
		if err != nil {
			return err
		}
		obligations, err := outstanding(ctx, tx, payment.ResidenceID, payment.ProfileID)
		if err != nil {
			return err
		}

		result = Allocate(payment.Amount, link.CreditBalance, obligations)

		for _, a := range result.Allocations {
			upd := repository.PaymentUpdate{AmountPaid: a.PaidAfter, Status: a.Status}
			if a.Status == repository.ObligationPaid {
				upd.PaidAt = &now
			}
			switch a.Kind {
			case repository.KindFee:
				err = tx.Fees().UpdatePayment(ctx, a.ObligationID, upd)
			default:
				err = tx.Contributions().UpdatePayment(ctx, a.ObligationID, upd)
			}
			if err != nil {
				return err
			}
			allocs = append(allocs, repository.PaymentAllocation{
				PaymentID:    payment.ID,
				Kind:         a.Kind,
				ObligationID: a.ObligationID,
				Amount:       a.Amount,
				CreatedAt:    now,
			})
		}

		if err := tx.Links().SetCredit(ctx, link.ID, result.Credit); err != nil {
			return err
		}
		if err := tx.Payments().MarkVerified(ctx, payment.ID, scope.UserID, result.Credit, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyReviewed
			}
			return err
		}
		return tx.Payments().AddAllocations(ctx, allocs)
	})
	if err != nil {
		return nil, err
	}

	log.Info("payment verified",
		logger.Amount(int64(payment.Amount)),
		logger.Count(len(result.Allocations)),
		logger.String("credit", result.Credit.String()))
	audit.Log(ctx, audit.PaymentVerified, scope.UserID,
		logger.ResidenceID(scope.ResidenceID), logger.PaymentID(payment.ID), logger.Amount(int64(payment.Amount)))
	if s.deps.Metrics != nil {
		s.deps.Metrics.PaymentsVerified.Inc()
		s.deps.Metrics.AmountAllocated.Add(float64(result.Applied))
	}
	s.sendReceipt(ctx, payment, result)

	verifier := scope.UserID
	payment.Status = repository.PaymentVerified
	payment.VerifiedBy = &verifier
	payment.VerifiedAt = &now
	payment.CreditAfter = result.Credit
	out := dto.Payment(*payment, allocs)
	return &out, nil
}

func (s *service) sendReceipt(ctx context.Context, p *repository.Payment, res AllocationResult) {
	prof, err := s.deps.Store.Profiles().GetByID(ctx, p.ProfileID)
	if err != nil {
		logger.From(ctx).Warn("receipt not sent: profile lookup failed", logger.Err(err))
		return
	}
	lines := make([]email.AllocationLine, 0, len(res.Allocations))
	for _, a := range res.Allocations {
		lines = append(lines, email.AllocationLine{Label: a.Label, Amount: a.Amount})
	}
	to := email.Recipient{Email: prof.Email, Name: prof.FullName}
	if err := s.deps.Mailer.SendPaymentReceipt(ctx, to, p.Amount, res.Credit, lines); err != nil {
		logger.From(ctx).Warn("payment receipt email failed", logger.PaymentID(p.ID), logger.Err(err))
	}
}

func (s *service) Reject(ctx context.Context, scope access.Scope, id, reason string) (*dto.PaymentResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Payments.Reject"),
		logger.ResidenceID(scope.ResidenceID), logger.PaymentID(id))

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrMissingFields
	}
	p, err := paymentIn(ctx, s.deps.Store, scope, id)
	if err != nil {
		return nil, err
	}
	if p.Status != repository.PaymentPending {
		return nil, ErrAlreadyReviewed
	}
	now := s.deps.Now().UTC()
	if err := s.deps.Store.Payments().MarkRejected(ctx, p.ID, scope.UserID, reason, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	log.Info("payment rejected")
	audit.Log(ctx, audit.PaymentRejected, scope.UserID,
		logger.ResidenceID(scope.ResidenceID), logger.PaymentID(p.ID), logger.String("reason", reason))
	if s.deps.Metrics != nil {
		s.deps.Metrics.PaymentsRejected.Inc()
	}

	if prof, err := s.deps.Store.Profiles().GetByID(ctx, p.ProfileID); err == nil {
		to := email.Recipient{Email: prof.Email, Name: prof.FullName}
		if err := s.deps.Mailer.SendPaymentRejected(ctx, to, p.Amount, reason); err != nil {
			log.Warn("rejection email failed", logger.Err(err))
		}
	}

	reviewer := scope.UserID
	p.Status = repository.PaymentRejected
	p.RejectionReason = reason
	p.VerifiedBy = &reviewer
	p.VerifiedAt = &now
	out := dto.Payment(*p, nil)
	return &out, nil
}


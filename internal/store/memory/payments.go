package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

type paymentRepo struct{ s *Store }

func (r paymentRepo) GetByID(ctx context.Context, id string) (*repository.Payment, error) {
	var (
		p  repository.Payment
		ok bool
	)
	r.s.read(func(d *data) { p, ok = d.payments[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r paymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]repository.Payment, error) {
	out := []repository.Payment{}
	r.s.read(func(d *data) {
		for _, p := range d.payments {
			if f.ResidenceID != "" && p.ResidenceID != f.ResidenceID {
				continue
			}
			if f.ProfileID != "" && p.ProfileID != f.ProfileID {
				continue
			}
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.Since != nil && p.CreatedAt.Before(*f.Since) {
				continue
			}
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r paymentRepo) Create(ctx context.Context, in repository.CreatePaymentInput) (*repository.Payment, error) {
	if in.Amount <= 0 || !in.Method.Valid() {
		return nil, repository.ErrInvalidInput
	}
	p := repository.Payment{
		ID:          newID(),
		ResidenceID: in.ResidenceID,
		ProfileID:   in.ProfileID,
		Amount:      in.Amount,
		Method:      in.Method,
		Reference:   in.Reference,
		ProofURL:    in.ProofURL,
		Status:      repository.PaymentPending,
		CreatedAt:   r.s.now(),
	}
	err := r.s.write(func(d *data) error {
		if _, ok := d.residences[in.ResidenceID]; !ok {
			return repository.ErrNotFound
		}
		d.payments[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r paymentRepo) review(id string, fn func(p *repository.Payment)) error {
	return r.s.write(func(d *data) error {
		p, ok := d.payments[id]
		if !ok {
			return repository.ErrNotFound
		}
		if p.Status != repository.PaymentPending {
			return repository.ErrConflict
		}
		fn(&p)
		d.payments[id] = p
		return nil
	})
}

func (r paymentRepo) MarkVerified(ctx context.Context, id, verifierID string, creditAfter money.Amount, at time.Time) error {
	return r.review(id, func(p *repository.Payment) {
		by, when := verifierID, at.UTC()
		p.Status = repository.PaymentVerified
		p.VerifiedBy = &by
		p.VerifiedAt = &when
		p.CreditAfter = creditAfter
	})
}

func (r paymentRepo) MarkRejected(ctx context.Context, id, reviewerID, reason string, at time.Time) error {
	return r.review(id, func(p *repository.Payment) {
		by, when := reviewerID, at.UTC()
		p.Status = repository.PaymentRejected
		p.RejectionReason = reason
		p.VerifiedBy = &by
		p.VerifiedAt = &when
	})
}

func (r paymentRepo) AddAllocations(ctx context.Context, allocations []repository.PaymentAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	now := r.s.now()
	return r.s.write(func(d *data) error {
		for _, a := range allocations {
			if _, ok := d.payments[a.PaymentID]; !ok {
				return repository.ErrNotFound
			}
			if a.ID == "" {
				a.ID = newID()
			}
			if a.CreatedAt.IsZero() {
				a.CreatedAt = now
			}
			d.allocations[a.PaymentID] = append(d.allocations[a.PaymentID], a)
		}
		return nil
	})
}

func (r paymentRepo) AllocatedTo(ctx context.Context, kind repository.ObligationKind, obligationID string) (money.Amount, error) {
	var sum money.Amount
	r.s.read(func(d *data) {
		for _, allocs := range d.allocations {
			for _, a := range allocs {
				if a.Kind == kind && a.ObligationID == obligationID {
					sum += a.Amount
				}
			}
		}
	})
	return sum, nil
}

func (r paymentRepo) ListAllocations(ctx context.Context, paymentID string) ([]repository.PaymentAllocation, error) {
	var out []repository.PaymentAllocation
	r.s.read(func(d *data) {
		out = append([]repository.PaymentAllocation{}, d.allocations[paymentID]...)
	})
	return out, nil
}

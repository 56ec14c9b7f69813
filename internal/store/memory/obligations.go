package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

func matchObligation(f repository.ObligationFilter, residenceID, profileID, period string, status repository.ObligationStatus) bool {
	if f.ResidenceID != "" && residenceID != f.ResidenceID {
		return false
	}
	if f.ProfileID != "" && profileID != f.ProfileID {
		return false
	}
	if f.Period != "" && period != f.Period {
		return false
	}
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.Unsettled && status == repository.ObligationPaid {
		return false
	}
	return true
}

func oldestFirst(dueI, dueJ, createdI, createdJ time.Time) bool {
	if !dueI.Equal(dueJ) {
		return dueI.Before(dueJ)
	}
	return createdI.Before(createdJ)
}

type feeRepo struct{ s *Store }

func (r feeRepo) GetByID(ctx context.Context, id string) (*repository.Fee, error) {
	var (
		f  repository.Fee
		ok bool
	)
	r.s.read(func(d *data) { f, ok = d.fees[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r feeRepo) List(ctx context.Context, filter repository.ObligationFilter) ([]repository.Fee, error) {
	out := []repository.Fee{}
	r.s.read(func(d *data) {
		for _, f := range d.fees {
			if matchObligation(filter, f.ResidenceID, f.ProfileID, "", f.Status) {
				out = append(out, f)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return oldestFirst(out[i].DueDate, out[j].DueDate, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out, nil
}

func (r feeRepo) Create(ctx context.Context, in repository.CreateFeeInput) (*repository.Fee, error) {
	if in.Amount.IsNegative() || strings.TrimSpace(in.Title) == "" {
		return nil, repository.ErrInvalidInput
	}
	f := repository.Fee{
		ID:          newID(),
		ResidenceID: in.ResidenceID,
		ProfileID:   in.ProfileID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate.UTC(),
		Status:      repository.StatusFor(in.Amount, 0),
		CreatedAt:   r.s.now(),
	}
	if f.Status == repository.ObligationPaid {
		// cuota de monto cero: nace saldada
		at := f.CreatedAt
		f.PaidAt = &at
	}
	err := r.s.write(func(d *data) error {
		if _, ok := d.residences[in.ResidenceID]; !ok {
			return repository.ErrNotFound
		}
		d.fees[f.ID] = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r feeRepo) UpdatePayment(ctx context.Context, id string, upd repository.PaymentUpdate) error {
	return r.s.write(func(d *data) error {
		f, ok := d.fees[id]
		if !ok {
			return repository.ErrNotFound
		}
		f.AmountPaid = upd.AmountPaid
		f.Status = upd.Status
		f.PaidAt = upd.PaidAt
		d.fees[id] = f
		return nil
	})
}

func (r feeRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.fees[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.fees, id)
		return nil
	})
}

type contributionRepo struct{ s *Store }

func (r contributionRepo) GetByID(ctx context.Context, id string) (*repository.Contribution, error) {
	var (
		c  repository.Contribution
		ok bool
	)
	r.s.read(func(d *data) { c, ok = d.contributions[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r contributionRepo) List(ctx context.Context, filter repository.ObligationFilter) ([]repository.Contribution, error) {
	out := []repository.Contribution{}
	r.s.read(func(d *data) {
		for _, c := range d.contributions {
			if matchObligation(filter, c.ResidenceID, c.ProfileID, c.Period, c.Status) {
				out = append(out, c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return oldestFirst(out[i].DueDate, out[j].DueDate, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out, nil
}

func (r contributionRepo) Create(ctx context.Context, in repository.CreateContributionInput) (*repository.Contribution, error) {
	if in.Amount.IsNegative() || in.Period == "" {
		return nil, repository.ErrInvalidInput
	}
	c := repository.Contribution{
		ID:          newID(),
		ResidenceID: in.ResidenceID,
		ProfileID:   in.ProfileID,
		Period:      in.Period,
		Amount:      in.Amount,
		DueDate:     in.DueDate.UTC(),
		Status:      repository.StatusFor(in.Amount, 0),
		CreatedAt:   r.s.now(),
	}
	if c.Status == repository.ObligationPaid {
		at := c.CreatedAt
		c.PaidAt = &at
	}
	err := r.s.write(func(d *data) error {
		for _, other := range d.contributions {
			if other.ProfileID == in.ProfileID && other.ResidenceID == in.ResidenceID && other.Period == in.Period {
				return repository.ErrConflict
			}
		}
		d.contributions[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r contributionRepo) UpdatePayment(ctx context.Context, id string, upd repository.PaymentUpdate) error {
	return r.s.write(func(d *data) error {
		c, ok := d.contributions[id]
		if !ok {
			return repository.ErrNotFound
		}
		c.AmountPaid = upd.AmountPaid
		c.Status = upd.Status
		c.PaidAt = upd.PaidAt
		d.contributions[id] = c
		return nil
	})
}

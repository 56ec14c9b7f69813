package pg

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

func obligationConds(f repository.ObligationFilter, withPeriod bool) *conds {
	c := &conds{}
	if f.ResidenceID != "" {
		c.add("residence_id = ?", f.ResidenceID)
	}
	if f.ProfileID != "" {
		c.add("profile_id = ?", f.ProfileID)
	}
	if withPeriod && f.Period != "" {
		c.add("period = ?", f.Period)
	}
	if f.Status != "" {
		c.add("status = ?", f.Status)
	}
	if f.Unsettled {
		c.raw("status <> 'paid'")
	}
	return c
}

// ─── Fees ───

type feeRepo struct{ q querier }

const feeCols = `id, residence_id, profile_id, title, description, amount, amount_paid, due_date, status, paid_at, created_at`

func scanFee(row pgx.Row) (*repository.Fee, error) {
	var f repository.Fee
	if err := row.Scan(&f.ID, &f.ResidenceID, &f.ProfileID, &f.Title, &f.Description, &f.Amount,
		&f.AmountPaid, &f.DueDate, &f.Status, &f.PaidAt, &f.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &f, nil
}

func (r *feeRepo) GetByID(ctx context.Context, id string) (*repository.Fee, error) {
	return scanFee(r.q.QueryRow(ctx, `SELECT `+feeCols+` FROM fees WHERE id = $1`, id))
}

func (r *feeRepo) List(ctx context.Context, f repository.ObligationFilter) ([]repository.Fee, error) {
	c := obligationConds(f, false)
	rows, err := r.q.Query(ctx,
		`SELECT `+feeCols+` FROM fees`+c.where()+` ORDER BY due_date, created_at`, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Fee{}
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *fee)
	}
	return out, rows.Err()
}

func (r *feeRepo) Create(ctx context.Context, in repository.CreateFeeInput) (*repository.Fee, error) {
	if in.Amount.IsNegative() || strings.TrimSpace(in.Title) == "" {
		return nil, repository.ErrInvalidInput
	}
	status := repository.StatusFor(in.Amount, 0)
	const q = `
		INSERT INTO fees (id, residence_id, profile_id, title, description, amount, due_date, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CASE WHEN $8 = 'paid' THEN NOW() END)
		RETURNING ` + feeCols
	return scanFee(r.q.QueryRow(ctx, q, newID(), in.ResidenceID, in.ProfileID, in.Title, in.Description,
		int64(in.Amount), in.DueDate.UTC(), string(status)))
}

func (r *feeRepo) UpdatePayment(ctx context.Context, id string, upd repository.PaymentUpdate) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE fees SET amount_paid = $2, status = $3, paid_at = $4 WHERE id = $1`,
		id, int64(upd.AmountPaid), string(upd.Status), upd.PaidAt))
}

func (r *feeRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.q.Exec(ctx, `DELETE FROM fees WHERE id = $1`, id))
}

// ─── Contributions ───

type contributionRepo struct{ q querier }

const contributionCols = `id, residence_id, profile_id, period, amount, amount_paid, due_date, status, paid_at, created_at`

func scanContribution(row pgx.Row) (*repository.Contribution, error) {
	var c repository.Contribution
	if err := row.Scan(&c.ID, &c.ResidenceID, &c.ProfileID, &c.Period, &c.Amount, &c.AmountPaid,
		&c.DueDate, &c.Status, &c.PaidAt, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *contributionRepo) GetByID(ctx context.Context, id string) (*repository.Contribution, error) {
	return scanContribution(r.q.QueryRow(ctx, `SELECT `+contributionCols+` FROM contributions WHERE id = $1`, id))
}

func (r *contributionRepo) List(ctx context.Context, f repository.ObligationFilter) ([]repository.Contribution, error) {
	c := obligationConds(f, true)
	rows, err := r.q.Query(ctx,
		`SELECT `+contributionCols+` FROM contributions`+c.where()+` ORDER BY due_date, created_at`, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Contribution{}
	for rows.Next() {
		ct, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ct)
	}
	return out, rows.Err()
}

func (r *contributionRepo) Create(ctx context.Context, in repository.CreateContributionInput) (*repository.Contribution, error) {
	if in.Amount.IsNegative() || in.Period == "" {
		return nil, repository.ErrInvalidInput
	}
	status := repository.StatusFor(in.Amount, 0)
	const q = `
		INSERT INTO contributions (id, residence_id, profile_id, period, amount, due_date, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7 = 'paid' THEN NOW() END)
		RETURNING ` + contributionCols
	return scanContribution(r.q.QueryRow(ctx, q, newID(), in.ResidenceID, in.ProfileID, in.Period,
		int64(in.Amount), in.DueDate.UTC(), string(status)))
}

func (r *contributionRepo) UpdatePayment(ctx context.Context, id string, upd repository.PaymentUpdate) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE contributions SET amount_paid = $2, status = $3, paid_at = $4 WHERE id = $1`,
		id, int64(upd.AmountPaid), string(upd.Status), upd.PaidAt))
}

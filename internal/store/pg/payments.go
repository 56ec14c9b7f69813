package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

type paymentRepo struct{ q querier }

const paymentCols = `id, residence_id, profile_id, amount, method, reference, proof_url, status,
	rejection_reason, verified_by, verified_at, credit_after, created_at`

func scanPayment(row pgx.Row) (*repository.Payment, error) {
	var p repository.Payment
	if err := row.Scan(&p.ID, &p.ResidenceID, &p.ProfileID, &p.Amount, &p.Method, &p.Reference,
		&p.ProofURL, &p.Status, &p.RejectionReason, &p.VerifiedBy, &p.VerifiedAt, &p.CreditAfter,
		&p.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*repository.Payment, error) {
	return scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentCols+` FROM payments WHERE id = $1`, id))
}

func (r *paymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]repository.Payment, error) {
	var c conds
	if f.ResidenceID != "" {
		c.add("residence_id = ?", f.ResidenceID)
	}
	if f.ProfileID != "" {
		c.add("profile_id = ?", f.ProfileID)
	}
	if f.Status != "" {
		c.add("status = ?", string(f.Status))
	}
	if f.Since != nil {
		c.add("created_at >= ?", f.Since.UTC())
	}
	q := `SELECT ` + paymentCols + ` FROM payments` + c.where() + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ` + c.next(f.Limit)
	}

	rows, err := r.q.Query(ctx, q, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *paymentRepo) Create(ctx context.Context, in repository.CreatePaymentInput) (*repository.Payment, error) {
	if in.Amount <= 0 || !in.Method.Valid() {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO payments (id, residence_id, profile_id, amount, method, reference, proof_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + paymentCols
	return scanPayment(r.q.QueryRow(ctx, q, newID(), in.ResidenceID, in.ProfileID, int64(in.Amount),
		string(in.Method), in.Reference, in.ProofURL))
}

// review aplica un UPDATE condicionado a status = 'pending'.
// Si no afecta filas distingue entre inexistente y ya revisado.
func (r *paymentRepo) review(ctx context.Context, id, q string, args ...any) error {
	tag, err := r.q.Exec(ctx, q, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapErr(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func (r *paymentRepo) MarkVerified(ctx context.Context, id, verifierID string, creditAfter money.Amount, at time.Time) error {
	const q = `
		UPDATE payments
		SET status = 'verified', verified_by = $2, verified_at = $3, credit_after = $4
		WHERE id = $1 AND status = 'pending'`
	return r.review(ctx, id, q, id, verifierID, at.UTC(), int64(creditAfter))
}

func (r *paymentRepo) MarkRejected(ctx context.Context, id, reviewerID, reason string, at time.Time) error {
	const q = `
		UPDATE payments
		SET status = 'rejected', verified_by = $2, verified_at = $3, rejection_reason = $4
		WHERE id = $1 AND status = 'pending'`
	return r.review(ctx, id, q, id, reviewerID, at.UTC(), reason)
}

func (r *paymentRepo) AddAllocations(ctx context.Context, allocations []repository.PaymentAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range allocations {
		id := a.ID
		if id == "" {
			id = newID()
		}
		batch.Queue(`
			INSERT INTO payment_allocations (id, payment_id, obligation_kind, obligation_id, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			id, a.PaymentID, string(a.Kind), a.ObligationID, int64(a.Amount))
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range allocations {
		if _, err := br.Exec(); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *paymentRepo) AllocatedTo(ctx context.Context, kind repository.ObligationKind, obligationID string) (money.Amount, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payment_allocations
		WHERE obligation_kind = $1 AND obligation_id = $2`, string(kind), obligationID).Scan(&sum)
	if err != nil {
		return 0, mapErr(err)
	}
	return money.Amount(sum), nil
}

func (r *paymentRepo) ListAllocations(ctx context.Context, paymentID string) ([]repository.PaymentAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, payment_id, obligation_kind, obligation_id, amount, created_at
		FROM payment_allocations WHERE payment_id = $1 ORDER BY created_at, id`, paymentID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.PaymentAllocation{}
	for rows.Next() {
		var a repository.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.Kind, &a.ObligationID, &a.Amount, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

package pg

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

// ─── Expenses ───

type expenseRepo struct{ q querier }

const expenseCols = `id, residence_id, category, description, amount, spent_at, COALESCE(created_by::text, ''), created_at`

func scanExpense(row pgx.Row) (*repository.Expense, error) {
	var e repository.Expense
	if err := row.Scan(&e.ID, &e.ResidenceID, &e.Category, &e.Description, &e.Amount, &e.SpentAt,
		&e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r *expenseRepo) GetByID(ctx context.Context, id string) (*repository.Expense, error) {
	return scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id = $1`, id))
}

func (r *expenseRepo) List(ctx context.Context, f repository.ExpenseFilter) ([]repository.Expense, error) {
	var c conds
	if f.ResidenceID != "" {
		c.add("residence_id = ?", f.ResidenceID)
	}
	if f.From != nil {
		c.add("spent_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		c.add("spent_at < ?", f.To.UTC())
	}
	if f.Category != "" {
		c.add("category = ?", f.Category)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+expenseCols+` FROM expenses`+c.where()+` ORDER BY spent_at DESC`, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *expenseRepo) Create(ctx context.Context, in repository.CreateExpenseInput) (*repository.Expense, error) {
	if in.Amount.IsNegative() || strings.TrimSpace(in.Category) == "" {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO expenses (id, residence_id, category, description, amount, spent_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + expenseCols
	return scanExpense(r.q.QueryRow(ctx, q, newID(), in.ResidenceID, in.Category, in.Description,
		int64(in.Amount), in.SpentAt.UTC(), nullIfEmpty(in.CreatedBy)))
}

func (r *expenseRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id))
}

// ─── Incidents ───

type incidentRepo struct{ q querier }

const incidentCols = `id, residence_id, reporter_id, title, description, location, priority, status,
	resolved_at, created_at, updated_at`

func scanIncident(row pgx.Row) (*repository.Incident, error) {
	var i repository.Incident
	if err := row.Scan(&i.ID, &i.ResidenceID, &i.ReporterID, &i.Title, &i.Description, &i.Location,
		&i.Priority, &i.Status, &i.ResolvedAt, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &i, nil
}

func (r *incidentRepo) GetByID(ctx context.Context, id string) (*repository.Incident, error) {
	return scanIncident(r.q.QueryRow(ctx, `SELECT `+incidentCols+` FROM incidents WHERE id = $1`, id))
}

func (r *incidentRepo) List(ctx context.Context, f repository.IncidentFilter) ([]repository.Incident, error) {
	var c conds
	if f.ResidenceID != "" {
		c.add("residence_id = ?", f.ResidenceID)
	}
	if f.ReporterID != "" {
		c.add("reporter_id = ?", f.ReporterID)
	}
	if f.Status != "" {
		c.add("status = ?", string(f.Status))
	}
	if f.OnlyOpen {
		c.raw("status IN ('open', 'in_progress')")
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+incidentCols+` FROM incidents`+c.where()+` ORDER BY created_at DESC`, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Incident{}
	for rows.Next() {
		i, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func (r *incidentRepo) Create(ctx context.Context, in repository.CreateIncidentInput) (*repository.Incident, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, repository.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = repository.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO incidents (id, residence_id, reporter_id, title, description, location, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + incidentCols
	return scanIncident(r.q.QueryRow(ctx, q, newID(), in.ResidenceID, in.ReporterID, in.Title,
		in.Description, in.Location, string(in.Priority)))
}

func (r *incidentRepo) UpdateStatus(ctx context.Context, id string, status repository.IncidentStatus, resolvedAt *time.Time) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE incidents SET status = $2, resolved_at = $3, updated_at = NOW() WHERE id = $1`,
		id, string(status), resolvedAt))
}

// ─── Complaints ───

type complaintRepo struct{ q querier }

const complaintCols = `id, residence_id, profile_id, subject, message, status, response, responded_at,
	created_at, updated_at`

func scanComplaint(row pgx.Row) (*repository.Complaint, error) {
	var c repository.Complaint
	if err := row.Scan(&c.ID, &c.ResidenceID, &c.ProfileID, &c.Subject, &c.Message, &c.Status,
		&c.Response, &c.RespondedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *complaintRepo) GetByID(ctx context.Context, id string) (*repository.Complaint, error) {
	return scanComplaint(r.q.QueryRow(ctx, `SELECT `+complaintCols+` FROM complaints WHERE id = $1`, id))
}

func (r *complaintRepo) List(ctx context.Context, f repository.ComplaintFilter) ([]repository.Complaint, error) {
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
	rows, err := r.q.Query(ctx,
		`SELECT `+complaintCols+` FROM complaints`+c.where()+` ORDER BY created_at DESC`, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Complaint{}
	for rows.Next() {
		cm, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cm)
	}
	return out, rows.Err()
}

func (r *complaintRepo) Create(ctx context.Context, in repository.CreateComplaintInput) (*repository.Complaint, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO complaints (id, residence_id, profile_id, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + complaintCols
	return scanComplaint(r.q.QueryRow(ctx, q, newID(), in.ResidenceID, in.ProfileID, in.Subject, in.Message))
}

func (r *complaintRepo) Respond(ctx context.Context, id string, status repository.ComplaintStatus, response string, at time.Time) error {
	const q = `
		UPDATE complaints
		SET status = $2, response = $3, responded_at = $4, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('resolved', 'rejected')`
	tag, err := r.q.Exec(ctx, q, id, string(status), response, at.UTC())
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrInvalidTransition
}

// ─── Documents ───

type documentRepo struct{ q querier }

const documentCols = `id, profile_id, residence_name, address, city, file_key, status, review_note,
	reviewed_by, reviewed_at, residence_id, created_at`

func scanDocument(row pgx.Row) (*repository.DocumentSubmission, error) {
	var d repository.DocumentSubmission
	if err := row.Scan(&d.ID, &d.ProfileID, &d.ResidenceName, &d.Address, &d.City, &d.FileKey,
		&d.Status, &d.ReviewNote, &d.ReviewedBy, &d.ReviewedAt, &d.ResidenceID, &d.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*repository.DocumentSubmission, error) {
	return scanDocument(r.q.QueryRow(ctx, `SELECT `+documentCols+` FROM document_submissions WHERE id = $1`, id))
}

func (r *documentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]repository.DocumentSubmission, error) {
	var c conds
	if f.ProfileID != "" {
		c.add("profile_id = ?", f.ProfileID)
	}
	if f.Status != "" {
		c.add("status = ?", string(f.Status))
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+documentCols+` FROM document_submissions`+c.where()+` ORDER BY created_at DESC`, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.DocumentSubmission{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Create depende del índice parcial idx_documents_one_pending para el conflicto.
func (r *documentRepo) Create(ctx context.Context, in repository.CreateDocumentInput) (*repository.DocumentSubmission, error) {
	if strings.TrimSpace(in.ResidenceName) == "" || in.FileKey == "" {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO document_submissions (id, profile_id, residence_name, address, city, file_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentCols
	return scanDocument(r.q.QueryRow(ctx, q, newID(), in.ProfileID, in.ResidenceName, in.Address, in.City, in.FileKey))
}

func (r *documentRepo) Review(ctx context.Context, id string, rev repository.DocumentReview) error {
	const q = `
		UPDATE document_submissions
		SET status = $2, review_note = $3, reviewed_by = $4, reviewed_at = $5, residence_id = $6
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(ctx, q, id, string(rev.Status), rev.Note, rev.ReviewerID, rev.At.UTC(), rev.ResidenceID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrConflict
}

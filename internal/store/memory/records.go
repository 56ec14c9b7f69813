package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

// ─── Expenses ───

type expenseRepo struct{ s *Store }

func (r expenseRepo) GetByID(ctx context.Context, id string) (*repository.Expense, error) {
	var (
		e  repository.Expense
		ok bool
	)
	r.s.read(func(d *data) { e, ok = d.expenses[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r expenseRepo) List(ctx context.Context, f repository.ExpenseFilter) ([]repository.Expense, error) {
	out := []repository.Expense{}
	r.s.read(func(d *data) {
		for _, e := range d.expenses {
			if f.ResidenceID != "" && e.ResidenceID != f.ResidenceID {
				continue
			}
			if f.From != nil && e.SpentAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !e.SpentAt.Before(*f.To) {
				continue
			}
			if f.Category != "" && e.Category != f.Category {
				continue
			}
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SpentAt.After(out[j].SpentAt) })
	return out, nil
}

func (r expenseRepo) Create(ctx context.Context, in repository.CreateExpenseInput) (*repository.Expense, error) {
	if in.Amount.IsNegative() || strings.TrimSpace(in.Category) == "" {
		return nil, repository.ErrInvalidInput
	}
	e := repository.Expense{
		ID:          newID(),
		ResidenceID: in.ResidenceID,
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		SpentAt:     in.SpentAt.UTC(),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   r.s.now(),
	}
	err := r.s.write(func(d *data) error {
		if _, ok := d.residences[in.ResidenceID]; !ok {
			return repository.ErrNotFound
		}
		d.expenses[e.ID] = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r expenseRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.expenses[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.expenses, id)
		return nil
	})
}

// ─── Incidents ───

type incidentRepo struct{ s *Store }

func (r incidentRepo) GetByID(ctx context.Context, id string) (*repository.Incident, error) {
	var (
		i  repository.Incident
		ok bool
	)
	r.s.read(func(d *data) { i, ok = d.incidents[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &i, nil
}

func (r incidentRepo) List(ctx context.Context, f repository.IncidentFilter) ([]repository.Incident, error) {
	out := []repository.Incident{}
	r.s.read(func(d *data) {
		for _, i := range d.incidents {
			if f.ResidenceID != "" && i.ResidenceID != f.ResidenceID {
				continue
			}
			if f.ReporterID != "" && i.ReporterID != f.ReporterID {
				continue
			}
			if f.Status != "" && i.Status != f.Status {
				continue
			}
			if f.OnlyOpen && i.Status != repository.IncidentOpen && i.Status != repository.IncidentInProgress {
				continue
			}
			out = append(out, i)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r incidentRepo) Create(ctx context.Context, in repository.CreateIncidentInput) (*repository.Incident, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, repository.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = repository.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, repository.ErrInvalidInput
	}
	now := r.s.now()
	i := repository.Incident{
		ID:          newID(),
		ResidenceID: in.ResidenceID,
		ReporterID:  in.ReporterID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Priority:    in.Priority,
		Status:      repository.IncidentOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.s.write(func(d *data) error {
		if _, ok := d.residences[in.ResidenceID]; !ok {
			return repository.ErrNotFound
		}
		d.incidents[i.ID] = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r incidentRepo) UpdateStatus(ctx context.Context, id string, status repository.IncidentStatus, resolvedAt *time.Time) error {
	return r.s.write(func(d *data) error {
		i, ok := d.incidents[id]
		if !ok {
			return repository.ErrNotFound
		}
		i.Status = status
		i.ResolvedAt = resolvedAt
		i.UpdatedAt = r.s.now()
		d.incidents[id] = i
		return nil
	})
}

// ─── Complaints ───

type complaintRepo struct{ s *Store }

func (r complaintRepo) GetByID(ctx context.Context, id string) (*repository.Complaint, error) {
	var (
		c  repository.Complaint
		ok bool
	)
	r.s.read(func(d *data) { c, ok = d.complaints[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r complaintRepo) List(ctx context.Context, f repository.ComplaintFilter) ([]repository.Complaint, error) {
	out := []repository.Complaint{}
	r.s.read(func(d *data) {
		for _, c := range d.complaints {
			if f.ResidenceID != "" && c.ResidenceID != f.ResidenceID {
				continue
			}
			if f.ProfileID != "" && c.ProfileID != f.ProfileID {
				continue
			}
			if f.Status != "" && c.Status != f.Status {
				continue
			}
			out = append(out, c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r complaintRepo) Create(ctx context.Context, in repository.CreateComplaintInput) (*repository.Complaint, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, repository.ErrInvalidInput
	}
	now := r.s.now()
	c := repository.Complaint{
		ID:          newID(),
		ResidenceID: in.ResidenceID,
		ProfileID:   in.ProfileID,
		Subject:     in.Subject,
		Message:     in.Message,
		Status:      repository.ComplaintPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.s.write(func(d *data) error {
		if _, ok := d.residences[in.ResidenceID]; !ok {
			return repository.ErrNotFound
		}
		d.complaints[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r complaintRepo) Respond(ctx context.Context, id string, status repository.ComplaintStatus, response string, at time.Time) error {
	return r.s.write(func(d *data) error {
		c, ok := d.complaints[id]
		if !ok {
			return repository.ErrNotFound
		}
		if c.Status.Terminal() {
			return repository.ErrInvalidTransition
		}
		when := at.UTC()
		c.Status = status
		c.Response = response
		c.RespondedAt = &when
		c.UpdatedAt = r.s.now()
		d.complaints[id] = c
		return nil
	})
}

// ─── Documents ───

type documentRepo struct{ s *Store }

func (r documentRepo) GetByID(ctx context.Context, id string) (*repository.DocumentSubmission, error) {
	var (
		doc repository.DocumentSubmission
		ok  bool
	)
	r.s.read(func(d *data) { doc, ok = d.documents[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r documentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]repository.DocumentSubmission, error) {
	out := []repository.DocumentSubmission{}
	r.s.read(func(d *data) {
		for _, doc := range d.documents {
			if f.ProfileID != "" && doc.ProfileID != f.ProfileID {
				continue
			}
			if f.Status != "" && doc.Status != f.Status {
				continue
			}
			out = append(out, doc)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r documentRepo) Create(ctx context.Context, in repository.CreateDocumentInput) (*repository.DocumentSubmission, error) {
	if strings.TrimSpace(in.ResidenceName) == "" || in.FileKey == "" {
		return nil, repository.ErrInvalidInput
	}
	doc := repository.DocumentSubmission{
		ID:            newID(),
		ProfileID:     in.ProfileID,
		ResidenceName: in.ResidenceName,
		Address:       in.Address,
		City:          in.City,
		FileKey:       in.FileKey,
		Status:        repository.DocumentPending,
		CreatedAt:     r.s.now(),
	}
	err := r.s.write(func(d *data) error {
		for _, other := range d.documents {
			if other.ProfileID == in.ProfileID && other.Status == repository.DocumentPending {
				return repository.ErrConflict
			}
		}
		d.documents[doc.ID] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r documentRepo) Review(ctx context.Context, id string, rev repository.DocumentReview) error {
	return r.s.write(func(d *data) error {
		doc, ok := d.documents[id]
		if !ok {
			return repository.ErrNotFound
		}
		if doc.Status != repository.DocumentPending {
			return repository.ErrConflict
		}
		by, at := rev.ReviewerID, rev.At.UTC()
		doc.Status = rev.Status
		doc.ReviewNote = rev.Note
		doc.ReviewedBy = &by
		doc.ReviewedAt = &at
		doc.ResidenceID = rev.ResidenceID
		d.documents[id] = doc
		return nil
	})
}

// Package expenses registra los gastos de una residencia.
package expenses

import (
	"context"
	"errors"
	"sort"
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
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidAmount = errors.New("amount must be >= 0")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month, expected YYYY-MM")
)

type Service interface {
	// List filtra por mes (YYYY-MM) si month no está vacío.
	List(ctx context.Context, scope access.Scope, month, category string) ([]dto.ExpenseResponse, error)
	Create(ctx context.Context, scope access.Scope, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, scope access.Scope, id string) error
	Summary(ctx context.Context, scope access.Scope, month string) (*dto.ExpenseSummary, error)
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

func monthRange(month string) (*time.Time, *time.Time, error) {
	if month == "" {
		return nil, nil, nil
	}
	from, err := helpers.ParsePeriod(month)
	if err != nil {
		return nil, nil, ErrInvalidMonth
	}
	to := from.AddDate(0, 1, 0)
	return &from, &to, nil
}

func (s *service) List(ctx context.Context, scope access.Scope, month, category string) ([]dto.ExpenseResponse, error) {
	from, to, err := monthRange(month)
	if err != nil {
		return nil, err
	}
	rows, err := s.deps.Store.Expenses().List(ctx, repository.ExpenseFilter{
		ResidenceID: scope.ResidenceID, From: from, To: to, Category: strings.TrimSpace(category),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, dto.Expense(e))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, scope access.Scope, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		return nil, ErrMissingFields
	}
	if in.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	spent := s.deps.Now().UTC()
	if in.SpentAt != "" {
		t, err := helpers.ParseDate(in.SpentAt)
		if err != nil {
			return nil, ErrInvalidDate
		}
		spent = t
	}
	e, err := s.deps.Store.Expenses().Create(ctx, repository.CreateExpenseInput{
		ResidenceID: scope.ResidenceID,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		SpentAt:     spent,
		CreatedBy:   scope.UserID,
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("expense recorded", logger.Layer("service"), logger.ResidenceID(scope.ResidenceID),
		logger.Amount(int64(e.Amount)), logger.String("category", e.Category))
	out := dto.Expense(*e)
	return &out, nil
}

func (s *service) Delete(ctx context.Context, scope access.Scope, id string) error {
	e, err := s.deps.Store.Expenses().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.ResidenceID != scope.ResidenceID {
		return repository.ErrNotFound
	}
	return s.deps.Store.Expenses().Delete(ctx, id)
}

// Summary agrupa los gastos del mes por categoría; month vacío = mes actual.
func (s *service) Summary(ctx context.Context, scope access.Scope, month string) (*dto.ExpenseSummary, error) {
	if month == "" {
		month = s.deps.Now().UTC().Format("2006-01")
	}
	from, to, err := monthRange(month)
	if err != nil {
		return nil, err
	}
	rows, err := s.deps.Store.Expenses().List(ctx, repository.ExpenseFilter{ResidenceID: scope.ResidenceID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	byCat := map[string]*dto.CategoryTotal{}
	out := &dto.ExpenseSummary{Month: month, Categories: []dto.CategoryTotal{}}
	for _, e := range rows {
		c := byCat[e.Category]
		if c == nil {
			c = &dto.CategoryTotal{Category: e.Category}
			byCat[e.Category] = c
		}
		c.Total += e.Amount
		c.Count++
		out.Total += e.Amount
	}
	for _, c := range byCat {
		out.Categories = append(out.Categories, *c)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		if out.Categories[i].Total != out.Categories[j].Total {
			return out.Categories[i].Total > out.Categories[j].Total
		}
		return out.Categories[i].Category < out.Categories[j].Category
	})
	return out, nil
}


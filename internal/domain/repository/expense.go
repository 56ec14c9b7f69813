package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

// Expense es un gasto de la residencia (mantenimiento, limpieza, etc).
type Expense struct {
	ID          string
	ResidenceID string
	Category    string
	Description string
	Amount      money.Amount
	SpentAt     time.Time
	CreatedBy   string
	CreatedAt   time.Time
}

// CreateExpenseInput datos para registrar un gasto.
type CreateExpenseInput struct {
	ResidenceID string
	Category    string
	Description string
	Amount      money.Amount
	SpentAt     time.Time
	CreatedBy   string
}

// ExpenseFilter filtra por rango [From, To).
type ExpenseFilter struct {
	ResidenceID string
	From        *time.Time
	To          *time.Time
	Category    string
}

// ExpenseRepository define operaciones sobre gastos.
type ExpenseRepository interface {
	GetByID(ctx context.Context, id string) (*Expense, error)

	// List ordena por spent_at descendente.
	List(ctx context.Context, filter ExpenseFilter) ([]Expense, error)

	Create(ctx context.Context, input CreateExpenseInput) (*Expense, error)
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/budgetbox/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type Users interface {
	// Create returns ErrDuplicate when the email is already taken.
	Create(ctx context.Context, email string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// Budgets is append-only: there is no update or delete.
type Budgets interface {
	Create(ctx context.Context, s models.BudgetSnapshot) (models.BudgetSnapshot, error)
	// Latest returns ErrNotFound when the user has no snapshots.
	Latest(ctx context.Context, userID string) (models.BudgetSnapshot, error)
	// ListByUser returns up to limit snapshots ordered by updatedAt desc,
	// newest insert first on ties.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.BudgetSnapshot, error)
}

package postgres

import (
	"context"

	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type budgetsRepo struct{ pool *pgxpool.Pool }

const budgetColumns = `id, user_id, income, monthly_bills, food, transport, subscriptions, miscellaneous, created_at, updated_at`

func (r *budgetsRepo) Create(ctx context.Context, s models.BudgetSnapshot) (models.BudgetSnapshot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	const q = `
INSERT INTO budgets (
  id, user_id, income, monthly_bills, food, transport, subscriptions, miscellaneous, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING ` + budgetColumns
	row := r.pool.QueryRow(ctx, q,
		s.ID, s.UserID, s.Income, s.MonthlyBills, s.Food, s.Transport, s.Subscriptions, s.Miscellaneous,
		s.CreatedAt, s.UpdatedAt,
	)
	out, err := scanBudget(row)
	if err != nil {
		return models.BudgetSnapshot{}, mapErr(err)
	}
	return out, nil
}

func (r *budgetsRepo) Latest(ctx context.Context, userID string) (models.BudgetSnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+`
		   FROM budgets
		  WHERE user_id=$1
		  ORDER BY updated_at DESC, seq DESC
		  LIMIT 1`,
		userID,
	)
	s, err := scanBudget(row)
	if err != nil {
		return models.BudgetSnapshot{}, mapErr(err)
	}
	return s, nil
}

func (r *budgetsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.BudgetSnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+`
		   FROM budgets
		  WHERE user_id=$1
		  ORDER BY updated_at DESC, seq DESC
		  LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BudgetSnapshot{}
	for rows.Next() {
		s, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanBudget(row pgx.Row) (models.BudgetSnapshot, error) {
	var s models.BudgetSnapshot
	err := row.Scan(&s.ID, &s.UserID, &s.Income, &s.MonthlyBills, &s.Food, &s.Transport,
		&s.Subscriptions, &s.Miscellaneous, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

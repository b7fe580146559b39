package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/google/uuid"
)

type budgetsRepo struct{ db *sql.DB }

const budgetColumns = `id, user_id, income, monthly_bills, food, transport, subscriptions, miscellaneous, created_at, updated_at`

// rowid breaks updated_at ties in insertion order.
const recencyOrder = `ORDER BY updated_at DESC, rowid DESC`

func (r *budgetsRepo) Create(ctx context.Context, s models.BudgetSnapshot) (models.BudgetSnapshot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Income, s.MonthlyBills, s.Food, s.Transport, s.Subscriptions, s.Miscellaneous,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return models.BudgetSnapshot{}, mapErr(err)
	}
	return s, nil
}

func (r *budgetsRepo) Latest(ctx context.Context, userID string) (models.BudgetSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? `+recencyOrder+` LIMIT 1`,
		userID,
	)
	s, err := scanBudget(row)
	if err != nil {
		return models.BudgetSnapshot{}, mapErr(err)
	}
	return s, nil
}

func (r *budgetsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.BudgetSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? `+recencyOrder+` LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(row scanner) (models.BudgetSnapshot, error) {
	var (
		s                models.BudgetSnapshot
		created, updated string
	)
	err := row.Scan(&s.ID, &s.UserID, &s.Income, &s.MonthlyBills, &s.Food, &s.Transport,
		&s.Subscriptions, &s.Miscellaneous, &created, &updated)
	if err != nil {
		return s, err
	}
	if s.CreatedAt, err = parseTime(created); err != nil {
		return s, fmt.Errorf("parse created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updated); err != nil {
		return s, fmt.Errorf("parse updated_at: %w", err)
	}
	return s, nil
}

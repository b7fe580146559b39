package postgres

import (
	"errors"

	repo "github.com/baharkarakas/budgetbox/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users   repo.Users
	Budgets repo.Budgets
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:   &usersRepo{pool},
		Budgets: &budgetsRepo{pool},
	}
}

const uniqueViolation = "23505"

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repo.ErrDuplicate
	}
	return err
}

package postgres

import (
	"context"

	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/baharkarakas/budgetbox/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repository.Users {
	return &usersRepo{pool: pool}
}

func (r *usersRepo) Create(ctx context.Context, email string) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Email: email}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, email) VALUES($1,$2) RETURNING created_at`,
		u.ID, u.Email,
	).Scan(&u.CreatedAt)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, created_at FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/google/uuid"
)

type usersRepo struct{ db *sql.DB }

func (r *usersRepo) Create(ctx context.Context, email string) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Email: email, CreatedAt: time.Now().UTC()}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(id, email, created_at) VALUES(?, ?, ?)`,
		u.ID, u.Email, formatTime(u.CreatedAt),
	)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u       models.User
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &created)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return models.User{}, err
	}
	return u, nil
}

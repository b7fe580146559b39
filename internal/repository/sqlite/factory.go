// Package sqlite implements the repositories on a single SQLite file. It
// backs single-node deployments where running Postgres is not worth it.
package sqlite

import (
	"database/sql"
	"errors"
	"time"

	repo "github.com/baharkarakas/budgetbox/internal/repository"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Repositories struct {
	Users   repo.Users
	Budgets repo.Budgets
}

func NewRepositories(db *sql.DB) Repositories {
	return Repositories{
		Users:   &usersRepo{db},
		Budgets: &budgetsRepo{db},
	}
}

// Fixed width so that text order equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repo.ErrNotFound
	}
	var se *msqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return repo.ErrDuplicate
	}
	return err
}

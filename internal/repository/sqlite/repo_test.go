package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/baharkarakas/budgetbox/internal/db"
	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/baharkarakas/budgetbox/internal/repository"
)

func setupRepos(t *testing.T) Repositories {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "budgetbox.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepositories(conn)
}

func TestUsersCreateAndLookup(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	u, err := repos.Users.Create(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repos.Users.GetByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("id = %q, want %q", got.ID, u.ID)
	}

	if _, err := repos.Users.Create(ctx, "a@example.com"); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate create err = %v, want ErrDuplicate", err)
	}
	if _, err := repos.Users.GetByEmail(ctx, "A@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("case-different lookup err = %v, want ErrNotFound", err)
	}
}

func TestBudgetsOrdering(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	u, err := repos.Users.Create(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := repos.Budgets.Latest(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("latest on empty err = %v, want ErrNotFound", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		_, err := repos.Budgets.Create(ctx, models.BudgetSnapshot{
			UserID:    u.ID,
			Budget:    models.Budget{Income: float64(i)},
			CreatedAt: ts,
			UpdatedAt: ts,
		})
		if err != nil {
			t.Fatalf("create budget %d: %v", i, err)
		}
	}
	// Same timestamp as the newest row: insertion order decides.
	tied := base.Add(11 * time.Second)
	if _, err := repos.Budgets.Create(ctx, models.BudgetSnapshot{
		UserID: u.ID, Budget: models.Budget{Income: 99}, CreatedAt: tied, UpdatedAt: tied,
	}); err != nil {
		t.Fatalf("create tied budget: %v", err)
	}

	latest, err := repos.Budgets.Latest(ctx, u.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Income != 99 {
		t.Fatalf("latest income = %v, want 99", latest.Income)
	}
	if !latest.UpdatedAt.Equal(tied) {
		t.Fatalf("latest updatedAt = %v, want %v", latest.UpdatedAt, tied)
	}

	list, err := repos.Budgets.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 10 {
		t.Fatalf("list len = %d, want 10", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].UpdatedAt.After(list[i-1].UpdatedAt) {
			t.Fatalf("list not newest first at %d", i)
		}
	}
	if list[0].Income != 99 || list[1].Income != 11 {
		t.Fatalf("head = %v,%v want 99,11", list[0].Income, list[1].Income)
	}
}

func TestBudgetsListEmpty(t *testing.T) {
	repos := setupRepos(t)
	list, err := repos.Budgets.ListByUser(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("list = %#v, want empty non-nil", list)
	}
}

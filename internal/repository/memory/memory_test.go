package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/baharkarakas/budgetbox/internal/repository"
)

func TestBudgetsNewestFirstWithTies(t *testing.T) {
	users, budgets := New().Repos()
	ctx := context.Background()
	u, err := users.Create(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{ts, ts.Add(time.Minute), ts.Add(time.Minute), ts.Add(-time.Minute)} {
		if _, err := budgets.Create(ctx, models.BudgetSnapshot{
			UserID: u.ID, Budget: models.Budget{Income: float64(i)}, CreatedAt: at, UpdatedAt: at,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := budgets.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []float64
	for _, s := range list {
		got = append(got, s.Income)
	}
	want := []float64{2, 1, 0, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	latest, err := budgets.Latest(ctx, u.ID)
	if err != nil || latest.Income != 2 {
		t.Fatalf("latest = %+v, %v", latest, err)
	}
}

func TestUsersDuplicateAndMissing(t *testing.T) {
	users, budgets := New().Repos()
	ctx := context.Background()
	if _, err := users.Create(ctx, "a@example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.Create(ctx, "a@example.com"); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if _, err := users.GetByEmail(ctx, "b@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := budgets.Latest(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

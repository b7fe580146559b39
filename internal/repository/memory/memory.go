// Package memory keeps users and snapshots in process memory. Used by tests
// and by DATA_BACKEND=memory for demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/budgetbox/internal/models"
	repo "github.com/baharkarakas/budgetbox/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User // by email
	budgets []entry
	seq     int64
}

type entry struct {
	seq  int64
	snap models.BudgetSnapshot
}

func New() *Store {
	return &Store{users: map[string]models.User{}}
}

// Repos returns the store behind both repository interfaces.
func (s *Store) Repos() (repo.Users, repo.Budgets) {
	return usersRepo{s}, budgetsRepo{s}
}

// Count returns the number of stored snapshots.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.budgets)
}

type usersRepo struct{ s *Store }

func (r usersRepo) Create(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[email]; ok {
		return models.User{}, repo.ErrDuplicate
	}
	u := models.User{ID: uuid.NewString(), Email: email, CreatedAt: time.Now().UTC()}
	r.s.users[email] = u
	return u, nil
}

func (r usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

type budgetsRepo struct{ s *Store }

func (r budgetsRepo) Create(_ context.Context, snap models.BudgetSnapshot) (models.BudgetSnapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	r.s.budgets = append(r.s.budgets, entry{seq: r.s.seq, snap: snap})
	return snap, nil
}

func (r budgetsRepo) Latest(ctx context.Context, userID string) (models.BudgetSnapshot, error) {
	list, _ := r.ListByUser(ctx, userID, 1)
	if len(list) == 0 {
		return models.BudgetSnapshot{}, repo.ErrNotFound
	}
	return list[0], nil
}

func (r budgetsRepo) ListByUser(_ context.Context, userID string, limit int) ([]models.BudgetSnapshot, error) {
	r.s.mu.RLock()
	var matched []entry
	for _, e := range r.s.budgets {
		if e.snap.UserID == userID {
			matched = append(matched, e)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.snap.UpdatedAt.Equal(b.snap.UpdatedAt) {
			return a.snap.UpdatedAt.After(b.snap.UpdatedAt)
		}
		return a.seq > b.seq
	})
	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]models.BudgetSnapshot, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.snap)
	}
	return out, nil
}

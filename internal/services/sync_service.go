package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/baharkarakas/budgetbox/internal/events"
	"github.com/baharkarakas/budgetbox/internal/metrics"
	"github.com/baharkarakas/budgetbox/internal/models"
	repo "github.com/baharkarakas/budgetbox/internal/repository"
	"github.com/baharkarakas/budgetbox/internal/worker"
)

// HistoryLimit caps FetchHistory; older snapshots are not reachable.
const HistoryLimit = 10

type SyncService struct {
	users   *UserService
	budgets repo.Budgets
	pub     events.Publisher
	wp      *worker.Pool
	now     func() time.Time
}

func NewSyncService(users *UserService, b repo.Budgets, pub events.Publisher, wp *worker.Pool) *SyncService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &SyncService{users: users, budgets: b, pub: pub, wp: wp, now: time.Now}
}

// Push appends budget as a new snapshot and returns the server timestamp.
// Every call appends; identical payloads are not deduplicated.
func (s *SyncService) Push(ctx context.Context, email string, budget *models.Budget) (time.Time, error) {
	if email == "" || budget == nil {
		metrics.SyncTotal.WithLabelValues("missing_data").Inc()
		return time.Time{}, ErrMissingData
	}
	u, err := s.users.Resolve(ctx, email)
	if err != nil {
		metrics.SyncTotal.WithLabelValues(resultLabel(err)).Inc()
		return time.Time{}, err
	}

	now := s.now().UTC()
	snap, err := s.budgets.Create(ctx, models.BudgetSnapshot{
		UserID:    u.ID,
		Budget:    *budget,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		metrics.SyncTotal.WithLabelValues("error").Inc()
		return time.Time{}, storageErr("create budget", err)
	}
	metrics.SyncTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotsAppended.Inc()

	s.announce(events.NewBudgetSynced(snap.ID, u.ID, u.Email, now))
	return now, nil
}

// FetchLatest returns nil, nil when the user exists but has never synced.
func (s *SyncService) FetchLatest(ctx context.Context, email string) (*models.BudgetSnapshot, error) {
	if email == "" {
		return nil, ErrMissingData
	}
	u, err := s.users.Resolve(ctx, email)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("latest", resultLabel(err)).Inc()
		return nil, err
	}
	snap, err := s.budgets.Latest(ctx, u.ID)
	if errors.Is(err, repo.ErrNotFound) {
		metrics.FetchTotal.WithLabelValues("latest", "empty").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.FetchTotal.WithLabelValues("latest", "error").Inc()
		return nil, storageErr("latest budget", err)
	}
	metrics.FetchTotal.WithLabelValues("latest", "ok").Inc()
	return &snap, nil
}

// FetchHistory returns at most HistoryLimit snapshots, newest first.
func (s *SyncService) FetchHistory(ctx context.Context, email string) ([]models.BudgetSnapshot, error) {
	if email == "" {
		return nil, ErrMissingData
	}
	u, err := s.users.Resolve(ctx, email)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("history", resultLabel(err)).Inc()
		return nil, err
	}
	list, err := s.budgets.ListByUser(ctx, u.ID, HistoryLimit)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("history", "error").Inc()
		return nil, storageErr("list budgets", err)
	}
	if list == nil {
		list = []models.BudgetSnapshot{}
	}
	metrics.FetchTotal.WithLabelValues("history", "ok").Inc()
	return list, nil
}

// announce runs off the request path; a failed publish is logged only.
func (s *SyncService) announce(e events.BudgetSynced) {
	if s.wp == nil {
		return
	}
	s.wp.Submit(func() {
		if err := s.pub.PublishBudgetSynced(context.Background(), e); err != nil {
			metrics.EventsPublished.WithLabelValues("error").Inc()
			slog.Warn("publish budget event", "snapshot_id", e.SnapshotID, "err", err)
			return
		}
		metrics.EventsPublished.WithLabelValues("ok").Inc()
	})
}

func resultLabel(err error) string {
	if errors.Is(err, ErrUserNotFound) {
		return "not_found"
	}
	return "error"
}

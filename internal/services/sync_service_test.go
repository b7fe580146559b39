package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/baharkarakas/budgetbox/internal/events"
	"github.com/baharkarakas/budgetbox/internal/models"
	"github.com/baharkarakas/budgetbox/internal/repository/memory"
	"github.com/baharkarakas/budgetbox/internal/worker"
)

const testEmail = "demo@budgetbox.local"

type recordingPublisher struct {
	mu   sync.Mutex
	got  []events.BudgetSynced
	fail bool
}

func (p *recordingPublisher) PublishBudgetSynced(_ context.Context, e events.BudgetSynced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, e)
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	store *memory.Store
	users *UserService
	svc   *SyncService
	pub   *recordingPublisher
	wp    *worker.Pool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ur, br := store.Repos()
	users := NewUserService(ur)
	if _, _, err := users.Ensure(context.Background(), testEmail); err != nil {
		t.Fatalf("seed: %v", err)
	}
	pub := &recordingPublisher{}
	wp := worker.NewPool(1)
	svc := NewSyncService(users, br, pub, wp)

	// strictly increasing clock
	var mu sync.Mutex
	clock := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return &fixture{store: store, users: users, svc: svc, pub: pub, wp: wp}
}

func TestPushThenLatestRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := models.Budget{Income: 1000, MonthlyBills: 300, Food: 150, Transport: 60, Subscriptions: 25, Miscellaneous: 10}

	ts, err := f.svc.Push(ctx, testEmail, &in)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if ts.IsZero() {
		t.Fatal("push returned zero timestamp")
	}

	latest, err := f.svc.FetchLatest(ctx, testEmail)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil {
		t.Fatal("latest is nil after push")
	}
	if latest.Budget != in {
		t.Fatalf("latest = %+v, want %+v", latest.Budget, in)
	}
	if !latest.CreatedAt.Equal(ts) || !latest.UpdatedAt.Equal(ts) {
		t.Fatalf("timestamps = %v/%v, want %v", latest.CreatedAt, latest.UpdatedAt, ts)
	}
}

func TestFetchLatestEmpty(t *testing.T) {
	f := newFixture(t)
	latest, err := f.svc.FetchLatest(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("latest = %+v, want nil", latest)
	}
}

func TestHistoryCapAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		b := models.Budget{Income: float64(i)}
		if _, err := f.svc.Push(ctx, testEmail, &b); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	list, err := f.svc.FetchHistory(ctx, testEmail)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(list) != HistoryLimit {
		t.Fatalf("history len = %d, want %d", len(list), HistoryLimit)
	}
	for i := 1; i < len(list); i++ {
		if list[i].UpdatedAt.After(list[i-1].UpdatedAt) {
			t.Fatalf("history not newest first at %d", i)
		}
	}
	if list[0].Income != 14 || list[9].Income != 5 {
		t.Fatalf("history window = %v..%v, want 14..5", list[0].Income, list[9].Income)
	}
}

func TestHistoryEmptyIsNotNil(t *testing.T) {
	f := newFixture(t)
	list, err := f.svc.FetchHistory(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("history = %#v, want empty slice", list)
	}
}

func TestPushMissingData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := models.Budget{Income: 1}

	if _, err := f.svc.Push(ctx, "", &b); !errors.Is(err, ErrMissingData) {
		t.Fatalf("missing email err = %v", err)
	}
	if _, err := f.svc.Push(ctx, testEmail, nil); !errors.Is(err, ErrMissingData) {
		t.Fatalf("missing budget err = %v", err)
	}
	if n := f.store.Count(); n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}
}

func TestPushUnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := models.Budget{Income: 1}

	if _, err := f.svc.Push(ctx, "stranger@example.com", &b); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if n := f.store.Count(); n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}
	if _, err := f.svc.FetchLatest(ctx, "stranger@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("latest err = %v", err)
	}
	if _, err := f.svc.FetchHistory(ctx, "stranger@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("history err = %v", err)
	}
}

func TestPushIdenticalPayloadsAppend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := models.Budget{Income: 500, Food: 100}
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Push(ctx, testEmail, &b); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if n := f.store.Count(); n != 3 {
		t.Fatalf("rows = %d, want 3", n)
	}
	list, _ := f.svc.FetchHistory(ctx, testEmail)
	seen := map[string]bool{}
	for _, s := range list {
		if seen[s.ID] {
			t.Fatalf("duplicate snapshot id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestPushAnnouncesEvent(t *testing.T) {
	f := newFixture(t)
	b := models.Budget{Income: 1}
	if _, err := f.svc.Push(context.Background(), testEmail, &b); err != nil {
		t.Fatalf("push: %v", err)
	}
	f.wp.Stop()

	f.pub.mu.Lock()
	defer f.pub.mu.Unlock()
	if len(f.pub.got) != 1 {
		t.Fatalf("events = %d, want 1", len(f.pub.got))
	}
	if e := f.pub.got[0]; e.Email != testEmail || e.Type != events.TypeBudgetSynced || e.SnapshotID == "" {
		t.Fatalf("event = %+v", e)
	}
}

func TestPublishFailureDoesNotFailPush(t *testing.T) {
	f := newFixture(t)
	f.pub.fail = true
	b := models.Budget{Income: 1}
	if _, err := f.svc.Push(context.Background(), testEmail, &b); err != nil {
		t.Fatalf("push: %v", err)
	}
	f.wp.Stop()
	if n := f.store.Count(); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

type brokenBudgets struct{}

var errDisk = errors.New("disk on fire")

func (brokenBudgets) Create(context.Context, models.BudgetSnapshot) (models.BudgetSnapshot, error) {
	return models.BudgetSnapshot{}, errDisk
}
func (brokenBudgets) Latest(context.Context, string) (models.BudgetSnapshot, error) {
	return models.BudgetSnapshot{}, errDisk
}
func (brokenBudgets) ListByUser(context.Context, string, int) ([]models.BudgetSnapshot, error) {
	return nil, errDisk
}

func TestStorageFailuresAreWrapped(t *testing.T) {
	f := newFixture(t)
	svc := NewSyncService(f.users, brokenBudgets{}, nil, nil)
	ctx := context.Background()
	b := models.Budget{}

	_, err := svc.Push(ctx, testEmail, &b)
	var se *StorageError
	if !errors.As(err, &se) || !errors.Is(err, errDisk) {
		t.Fatalf("push err = %v, want StorageError wrapping errDisk", err)
	}
	if _, err := svc.FetchLatest(ctx, testEmail); !errors.As(err, &se) {
		t.Fatalf("latest err = %v", err)
	}
	if _, err := svc.FetchHistory(ctx, testEmail); !errors.As(err, &se) {
		t.Fatalf("history err = %v", err)
	}
}

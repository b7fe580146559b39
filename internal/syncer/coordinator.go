// Package syncer moves the local budget to and from the server.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/baharkarakas/budgetbox/internal/budgetstate"
	"github.com/baharkarakas/budgetbox/internal/models"
)

// NetworkErrorNotice is shown to the user when a push fails.
const NetworkErrorNotice = "Network error: data saved locally only. Will sync later."

// ErrCoalesced means a push was already running. The running push repeats
// once with the newest data instead.
var ErrCoalesced = errors.New("sync already in progress")

type API interface {
	Push(ctx context.Context, b models.Budget) (time.Time, error)
	Latest(ctx context.Context) (*models.BudgetSnapshot, error)
}

type Coordinator struct {
	store  *budgetstate.Store
	api    API
	notify func(string)
	log    *slog.Logger

	mu      sync.Mutex
	running bool
	again   bool
	wg      sync.WaitGroup
}

// NewCoordinator wires store to api. notify receives user-facing notices
// and may be nil.
func NewCoordinator(store *budgetstate.Store, api API, notify func(string), log *slog.Logger) *Coordinator {
	if notify == nil {
		notify = func(string) {}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{store: store, api: api, notify: notify, log: log}
}

// Sync pushes the current budget. Only one push runs at a time.
func (c *Coordinator) Sync(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.again = true
		c.mu.Unlock()
		return ErrCoalesced
	}
	c.running = true
	c.mu.Unlock()

	for {
		err := c.pushOnce(ctx)

		c.mu.Lock()
		if !c.again || ctx.Err() != nil {
			c.running, c.again = false, false
			c.mu.Unlock()
			return err
		}
		c.again = false
		c.mu.Unlock()
	}
}

func (c *Coordinator) pushOnce(ctx context.Context) error {
	if err := c.store.SetStatus(budgetstate.StatusSyncPending); err != nil {
		c.log.Warn("persist status", "err", err)
	}
	st, rev := c.store.Snapshot()

	ts, err := c.api.Push(ctx, st.Data)
	if err != nil {
		c.log.Warn("push failed", "err", err)
		c.notify(NetworkErrorNotice)
		return fmt.Errorf("sync: %w", err)
	}

	applied, err := c.store.CompareAndSetStatus(rev, budgetstate.StatusSynced)
	if err != nil {
		c.log.Warn("persist status", "err", err)
	}
	if !applied {
		c.log.Debug("budget edited during push; staying pending")
	}
	c.log.Info("budget synced", "server_time", ts)
	return nil
}

// Trigger runs Sync in the background. Failures are only logged and
// notified.
func (c *Coordinator) Trigger(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Sync(ctx); err != nil && !errors.Is(err, ErrCoalesced) {
			c.log.Debug("background sync", "err", err)
		}
	}()
}

// Wait blocks until every triggered sync has returned.
func (c *Coordinator) Wait() { c.wg.Wait() }

// Load pulls the latest server snapshot into the store. It reports whether
// the store was replaced. Errors mean the local cache stays authoritative.
func (c *Coordinator) Load(ctx context.Context) (bool, error) {
	snap, err := c.api.Latest(ctx)
	if err != nil {
		c.log.Info("could not fetch latest budget; using local data", "err", err)
		return false, fmt.Errorf("load: %w", err)
	}
	applied, err := c.store.LoadFromServer(snap)
	if err != nil {
		return applied, fmt.Errorf("load: %w", err)
	}
	if applied {
		c.log.Info("budget loaded from server", "snapshot_id", snap.ID)
	}
	return applied, nil
}

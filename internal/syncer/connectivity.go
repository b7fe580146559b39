package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/baharkarakas/budgetbox/internal/client"
)

type Prober interface {
	Health(ctx context.Context) (*client.Health, error)
}

// Monitor polls the server and calls OnOnline when it comes back after
// being unreachable.
type Monitor struct {
	probe    Prober
	interval time.Duration
	onOnline func(context.Context)
	log      *slog.Logger

	mu     sync.Mutex
	seen   bool
	online bool
}

func NewMonitor(p Prober, interval time.Duration, onOnline func(context.Context), log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{probe: p, interval: interval, onOnline: onOnline, log: log}
}

// Online reports the last observation.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Run probes immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		m.check(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	_, err := m.probe.Health(ctx)
	if ctx.Err() != nil {
		return
	}
	if m.observe(err == nil) {
		m.log.Info("server reachable again; syncing")
		m.onOnline(ctx)
	}
}

// observe records a probe result and reports an offline to online
// transition. The first observation only sets the baseline.
func (m *Monitor) observe(online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.seen {
		m.seen, m.online = true, online
		return false
	}
	back := online && !m.online
	if online != m.online {
		m.log.Debug("connectivity changed", "online", online)
	}
	m.online = online
	return back
}

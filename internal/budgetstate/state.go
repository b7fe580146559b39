// Package budgetstate holds the client's budget and its sync status. Every
// mutation is written through a Persister before the call returns.
package budgetstate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/baharkarakas/budgetbox/internal/models"
)

type Status string

const (
	StatusLocalOnly   Status = "Local Only"
	StatusSyncPending Status = "Sync Pending"
	StatusSynced      Status = "Synced"
)

var ErrUnknownStatus = errors.New("unknown sync status")

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusLocalOnly, StatusSyncPending, StatusSynced:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// State is what gets persisted.
type State struct {
	Data   models.Budget `json:"data"`
	Status Status        `json:"status"`
}

func initialState() State { return State{Status: StatusLocalOnly} }

type Store struct {
	mu    sync.Mutex
	state State
	rev   uint64
	p     Persister
	// set while the last save failed; memory is then ahead of the file
	unsaved bool
}

// Open loads the persisted state. Nothing persisted yet means zeros and
// Local Only.
func Open(p Persister) (*Store, error) {
	st, ok, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load budget state: %w", err)
	}
	if !ok {
		st = initialState()
	}
	return &Store{state: normalize(st), p: p}, nil
}

func normalize(st State) State {
	if _, err := ParseStatus(string(st.Status)); err != nil {
		st.Status = StatusLocalOnly
	}
	for _, f := range models.Fields {
		st.Data.Set(f, amount(st.Data.Get(f)))
	}
	return st
}

// amount maps anything that is not a usable money amount to 0.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Snapshot returns the current state and its revision.
func (s *Store) Snapshot() (State, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.rev
}

func (s *Store) Budget() models.Budget {
	st, _ := s.Snapshot()
	return st.Data
}

func (s *Store) Status() Status {
	st, _ := s.Snapshot()
	return st.Status
}

func (s *Store) Revision() uint64 {
	_, rev := s.Snapshot()
	return rev
}

// UpdateField sets one field and marks the state Sync Pending. Negative
// and non-finite values are stored as 0.
func (s *Store) UpdateField(f models.Field, v float64) error {
	if _, err := models.ParseField(string(f)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func(next *State) {
		next.Data.Set(f, amount(v))
		next.Status = StatusSyncPending
	})
}

// UpdateFieldString parses text as typed by a user. Anything that is not a
// number is stored as 0.
func (s *Store) UpdateFieldString(name, text string) error {
	f, err := models.ParseField(name)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		v = 0
	}
	return s.UpdateField(f, v)
}

func (s *Store) SetStatus(st Status) error {
	if _, err := ParseStatus(string(st)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func(next *State) { next.Status = st })
}

// CompareAndSetStatus sets st only if nothing changed since rev, including
// writes to the persisted state by another process. It reports whether the
// status was applied.
func (s *Store) CompareAndSetStatus(rev uint64, st Status) (bool, error) {
	if _, err := ParseStatus(string(st)); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	if s.rev != rev {
		return false, nil
	}
	next := s.state
	next.Status = st
	return true, s.save(next)
}

// LoadFromServer replaces all six fields and marks the state Synced. A nil
// snapshot means the server had nothing and leaves the state alone.
func (s *Store) LoadFromServer(snap *models.BudgetSnapshot) (bool, error) {
	if snap == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return true, s.commit(func(next *State) {
		*next = normalize(State{Data: snap.Budget, Status: StatusSynced})
	})
}

// Reload re-reads the persisted state, picking up writes made by another
// process. It reports whether anything changed.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// read under mu so a concurrent commit cannot be rolled back
	st, ok, err := s.p.Load()
	if err != nil {
		return false, fmt.Errorf("reload budget state: %w", err)
	}
	if !ok {
		st = initialState()
	}
	st = normalize(st)
	if st == s.state {
		return false, nil
	}
	s.state = st
	s.rev++
	return true, nil
}

// commit applies mutate on top of the freshest persisted state and saves
// the result. mu must be held. The in-memory state advances even when
// saving fails.
func (s *Store) commit(mutate func(*State)) error {
	s.refresh()
	next := s.state
	mutate(&next)
	s.rev++
	return s.save(next)
}

func (s *Store) save(next State) error {
	s.state = next
	if err := s.p.Save(next); err != nil {
		s.unsaved = true
		return fmt.Errorf("save budget state: %w", err)
	}
	s.unsaved = false
	return nil
}

// refresh adopts a persisted state written by someone else and bumps the
// revision when it does. mu must be held. A missing or unreadable file is
// left for the next save to replace.
func (s *Store) refresh() {
	if s.unsaved {
		return
	}
	st, ok, err := s.p.Load()
	if err != nil || !ok {
		return
	}
	if st = normalize(st); st != s.state {
		s.state = st
		s.rev++
	}
}

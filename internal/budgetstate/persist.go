package budgetstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Persister interface {
	// Load reports ok=false when nothing has been saved yet.
	Load() (st State, ok bool, err error)
	Save(State) error
}

// document is the on-disk layout of the cache file.
type document struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

const documentVersion = 0

// FilePersister keeps the state in a single JSON file, replaced atomically
// on every save.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister { return &FilePersister{Path: path} }

func (p *FilePersister) Load() (State, bool, error) {
	b, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return State{}, false, fmt.Errorf("parse %s: %w", p.Path, err)
	}
	return doc.State, true, nil
}

func (p *FilePersister) Save(st State) error {
	b, err := json.Marshal(document{State: st, Version: documentVersion})
	if err != nil {
		return err
	}
	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.Path)
}

// MemoryPersister is a Persister for tests.
type MemoryPersister struct {
	mu    sync.Mutex
	st    State
	ok    bool
	saves int
	Err   error // returned by Save when set
}

func (p *MemoryPersister) Load() (State, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st, p.ok, nil
}

func (p *MemoryPersister) Save(st State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.st, p.ok = st, true
	p.saves++
	return nil
}

// Put replaces the stored state as if another writer had saved it.
func (p *MemoryPersister) Put(st State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st, p.ok = st, true
}

func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

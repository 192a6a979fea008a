// Package planstore persists the Plan as a single JSON blob behind an
// injectable backend, bounding the serialized size with an ordered
// degradation policy.
package planstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/theirongolddev/futureline/internal/model"
)

// ErrNoPlan is returned by Load when the backend holds no plan yet.
var ErrNoPlan = errors.New("planstore: no saved plan")

// Backend reads and writes the raw plan blob. Implementations must make
// Write atomic enough that a crashed save never leaves a half-written plan.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Store loads, saves, and mutates the plan through a Backend. All
// operations are serialized by an internal mutex, so concurrent callers
// (server handlers in particular) can't interleave read-modify-write
// cycles or race on the backend.
type Store struct {
	mu      sync.Mutex
	backend Backend
	budget  Budget
}

// New creates a store over the given backend with the given size budget.
func New(backend Backend, budget Budget) *Store {
	return &Store{backend: backend, budget: budget}
}

// NewFileStore is the common case: a plan file on disk.
func NewFileStore(path string, budget Budget) *Store {
	return New(&FileBackend{Path: path}, budget)
}

// Load reads and decodes the saved plan. Returns ErrNoPlan if none exists.
func (s *Store) Load() (*model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*model.Plan, error) {
	data, err := s.backend.Read()
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, ErrNoPlan) {
			return nil, ErrNoPlan
		}
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	var plan model.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	if plan.Journal == nil {
		plan.Journal = make(map[int]model.DayJournals)
	}
	return &plan, nil
}

// LoadOrDemo returns the saved plan, or the demo plan when none exists.
func (s *Store) LoadOrDemo() (*model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrDemo()
}

func (s *Store) loadOrDemo() (*model.Plan, error) {
	plan, err := s.load()
	if errors.Is(err, ErrNoPlan) {
		return model.DemoPlan(), nil
	}
	return plan, err
}

// Save serializes the plan and writes it through the backend, applying the
// degradation policy until the blob fits the budget. The returned list names
// the sections that were dropped; the in-memory plan is never modified.
func (s *Store) Save(plan *model.Plan) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(plan)
}

func (s *Store) save(plan *model.Plan) ([]string, error) {
	blob, dropped, err := s.budget.Fit(plan)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(blob); err != nil {
		return dropped, fmt.Errorf("writing plan: %w", err)
	}
	return dropped, nil
}

// Mutate loads the plan (demo if absent), applies fn, and saves the result.
// The lock is held across the whole cycle, so two overlapping Mutate calls
// can't each load the same snapshot and discard one another's change.
func (s *Store) Mutate(fn func(*model.Plan) error) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.loadOrDemo()
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		return nil, err
	}
	return s.save(plan)
}

// FileBackend stores the plan blob in a single file, written via a temp
// file + rename.
type FileBackend struct {
	Path string
}

// Read implements Backend.
func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.Path)
}

// Write implements Backend.
func (b *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, b.Path)
}

// MemoryBackend keeps the blob in memory; used by tests and the server's
// ephemeral mode.
type MemoryBackend struct {
	data []byte
}

// Read implements Backend.
func (b *MemoryBackend) Read() ([]byte, error) {
	if b.data == nil {
		return nil, ErrNoPlan
	}
	return b.data, nil
}

// Write implements Backend.
func (b *MemoryBackend) Write(data []byte) error {
	b.data = append([]byte(nil), data...)
	return nil
}

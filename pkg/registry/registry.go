// Package registry persists named template snapshots. A snapshot captures a
// variant id plus the override values an operator entered; loading one
// always yields an independent copy, so later edits never mutate the saved
// record.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("registry: template not found")

// ErrTitleRequired rejects saves with a blank title, since titles are how
// operators find snapshots again.
var ErrTitleRequired = errors.New("registry: template title is required")

// Record is one saved template snapshot. Records are immutable once saved;
// "updating" a template means saving a new record.
type Record struct {
	ID        string            `json:"id" yaml:"id"`
	Title     string            `json:"title" yaml:"title"`
	VariantID string            `json:"variant_id" yaml:"variant_id"`
	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
}

// clone returns a deep copy so stored state and handed-out state never
// share the override map.
func (r Record) clone() Record {
	out := r
	if r.Overrides != nil {
		out.Overrides = make(map[string]string, len(r.Overrides))
		for k, v := range r.Overrides {
			out.Overrides[k] = v
		}
	}
	return out
}

// Store is the persistence contract for template snapshots.
type Store interface {
	// Save validates and persists the record, assigning ID and CreatedAt
	// when unset, and returns the stored form.
	Save(record Record) (Record, error)
	// List returns all records, most recently created first.
	List() ([]Record, error)
	// Load returns an independent copy of the record with the given id.
	Load(id string) (Record, error)
	// Delete removes a record. Deleting an unknown id returns ErrNotFound.
	Delete(id string) error
}

// idSequence disambiguates ids minted within the same millisecond.
var (
	idMu       sync.Mutex
	idSequence uint64
)

func nextID(now time.Time) string {
	idMu.Lock()
	idSequence++
	seq := idSequence
	idMu.Unlock()
	return fmt.Sprintf("tpl-%d-%d", now.UnixMilli(), seq)
}

func validate(record Record) error {
	if strings.TrimSpace(record.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(record.VariantID) == "" {
		return fmt.Errorf("registry: record %q has no variant id", record.Title)
	}
	return nil
}

// MemoryStore keeps snapshots in process memory. It backs tests and
// short-lived CLI sessions; FileStore is the durable counterpart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
	clock   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		clock:   time.Now,
	}
}

// WithClock overrides the time source, for deterministic tests.
func (s *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	if clock != nil {
		s.clock = clock
	}
	return s
}

func (s *MemoryStore) Save(record Record) (Record, error) {
	if err := validate(record); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := record.clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.clock()
	}
	if stored.ID == "" {
		stored.ID = nextID(stored.CreatedAt)
	}
	if _, exists := s.records[stored.ID]; !exists {
		s.order = append(s.order, stored.ID)
	}
	s.records[stored.ID] = stored
	return stored.clone(), nil
}

func (s *MemoryStore) List() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.records[s.order[i]].clone())
	}
	return out, nil
}

func (s *MemoryStore) Load(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record.clone(), nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

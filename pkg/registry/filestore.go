package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const recordExt = ".yaml"

// FileStore persists one YAML file per snapshot under a base directory. The
// directory is created on first save, so pointing a store at a fresh path
// just works.
type FileStore struct {
	dir   string
	clock func() time.Time
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, clock: time.Now}
}

// WithClock overrides the time source, for deterministic tests.
func (s *FileStore) WithClock(clock func() time.Time) *FileStore {
	if clock != nil {
		s.clock = clock
	}
	return s
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+recordExt)
}

func (s *FileStore) Save(record Record) (Record, error) {
	if err := validate(record); err != nil {
		return Record{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("registry: create store directory: %w", err)
	}

	stored := record.clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.clock()
	}
	if stored.ID == "" {
		stored.ID = nextID(stored.CreatedAt)
	}

	data, err := yaml.Marshal(stored)
	if err != nil {
		return Record{}, fmt.Errorf("registry: encode record: %w", err)
	}
	if err := os.WriteFile(s.path(stored.ID), data, 0o644); err != nil {
		return Record{}, fmt.Errorf("registry: write record: %w", err)
	}
	return stored.clone(), nil
}

func (s *FileStore) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("registry: read store directory: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		record, err := s.Load(strings.TrimSuffix(entry.Name(), recordExt))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *FileStore) Load(id string) (Record, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("registry: read record: %w", err)
	}

	var record Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("registry: parse record %s: %w", id, err)
	}
	return record, nil
}

func (s *FileStore) Delete(id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("registry: delete record: %w", err)
	}
	return nil
}

package document

// OverrideStore maps field keys to operator-supplied values for a single
// document instance. It starts empty; effective-value resolution falls back
// to the variant defaults for absent keys, so seeding is lazy by design. The
// store performs no validation; required-field checks belong to the instance
// lifecycle.
type OverrideStore struct {
	values map[string]string
}

// NewOverrideStore creates an empty store.
func NewOverrideStore() *OverrideStore {
	return &OverrideStore{values: make(map[string]string)}
}

// Set inserts or replaces the override for key. Setting a value equal to the
// field default still records an explicit override.
func (s *OverrideStore) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
}

// Value returns the override for key and whether one exists.
func (s *OverrideStore) Value(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

// Has reports whether key carries an explicit override.
func (s *OverrideStore) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Reset clears every override so effective values fall back to defaults.
// Resetting an already-empty store is a no-op.
func (s *OverrideStore) Reset() {
	if len(s.values) == 0 {
		return
	}
	s.values = make(map[string]string)
}

// Len returns the number of explicit overrides.
func (s *OverrideStore) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of the override mapping, never a live reference.
func (s *OverrideStore) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Clone returns an independent store holding the same overrides.
func (s *OverrideStore) Clone() *OverrideStore {
	return &OverrideStore{values: s.Snapshot()}
}

// StoreFromSnapshot builds a store seeded with a copy of values. Used when
// branching an instance from a saved template record.
func StoreFromSnapshot(values map[string]string) *OverrideStore {
	store := NewOverrideStore()
	for key, value := range values {
		store.values[key] = value
	}
	return store
}

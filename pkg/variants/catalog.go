// Package variants holds the static catalog of document variant field
// models. The built-in definitions cover the three business lines (coffee,
// general produce, fresh produce) across the three document kinds (contract,
// shipment manifest, compliance certificate) and are embedded as YAML so the
// catalog needs no runtime files. Catalogs are open for extension: callers
// can register additional variants without touching the built-ins.
package variants

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/agrodocs/docforge/pkg/model"
)

// Catalog stores field models by variant id, providing lookup and duplication
// safeguards.
type Catalog struct {
	mu     sync.RWMutex
	models map[string]model.FieldModel
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{models: make(map[string]model.FieldModel)}
}

// Default returns a catalog seeded with the embedded built-in variants.
func Default() *Catalog {
	catalog := NewCatalog()
	if err := catalog.LoadFS(definitionsFS(), "definitions"); err != nil {
		// The embedded definitions are validated by tests; a failure here
		// means a broken build, not a runtime condition.
		panic(err)
	}
	return catalog
}

// Register adds a field model after validating it. Duplicate variant ids
// return an error.
func (c *Catalog) Register(m model.FieldModel) error {
	if err := m.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.models[m.VariantID]; exists {
		return fmt.Errorf("variants: variant %q already registered", m.VariantID)
	}
	c.models[m.VariantID] = m
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (c *Catalog) MustRegister(m model.FieldModel) {
	if err := c.Register(m); err != nil {
		panic(err)
	}
}

// Get retrieves a field model by variant id. The boolean mirrors map lookup;
// an unknown variant is "no template selected", not an error.
func (c *Catalog) Get(variantID string) (model.FieldModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.models[strings.TrimSpace(variantID)]
	return m, ok
}

// Has reports whether a variant is registered.
func (c *Catalog) Has(variantID string) bool {
	_, ok := c.Get(variantID)
	return ok
}

// List returns the registered variant ids sorted alphabetically.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.models))
	for id := range c.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadFS parses every YAML document under dir in fsys and registers the
// models it finds. Each file may hold multiple documents separated by `---`.
func (c *Catalog) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("variants: read definitions dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("variants: read %s: %w", path, err)
		}
		if err := c.loadDocuments(path, data); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) loadDocuments(path string, data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var m model.FieldModel
		err := decoder.Decode(&m)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("variants: parse %s: %w", path, err)
		}
		if err := c.Register(m); err != nil {
			return fmt.Errorf("variants: %s: %w", path, err)
		}
	}
}

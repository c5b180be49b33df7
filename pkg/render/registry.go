package render

// Variant dispatch is a table lookup rather than a switch so new document
// variants can be added without touching a central dispatcher.

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps variant ids to the renderer responsible for that document
// layout. Implementations can embed or wrap this for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Bind associates a renderer with a variant id. Rebinding an already-bound
// variant returns an error.
func (r *Registry) Bind(variantID string, renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return fmt.Errorf("render: variant id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[variantID]; exists {
		return fmt.Errorf("render: variant %q already bound", variantID)
	}
	r.renderers[variantID] = renderer
	return nil
}

// MustBind panics on binding failure. Useful for init-time wiring.
func (r *Registry) MustBind(variantID string, renderer Renderer) {
	if err := r.Bind(variantID, renderer); err != nil {
		panic(err)
	}
}

// Lookup retrieves the renderer for a variant. A missing binding is not an
// error: the caller treats it as "no template selected" and renders nothing.
func (r *Registry) Lookup(variantID string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[strings.TrimSpace(variantID)]
	return renderer, ok
}

// Variants returns the bound variant ids sorted alphabetically.
func (r *Registry) Variants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.renderers))
	for id := range r.renderers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a variant is bound.
func (r *Registry) Has(variantID string) bool {
	_, ok := r.Lookup(variantID)
	return ok
}

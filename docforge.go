package docforge

import (
	"context"
	"io/fs"

	"github.com/agrodocs/docforge/pkg/orchestrator"
	"github.com/agrodocs/docforge/pkg/registry"
	"github.com/agrodocs/docforge/pkg/render"
	"github.com/agrodocs/docforge/pkg/renderers/vanilla"
	"github.com/agrodocs/docforge/pkg/variants"
)

// Session is the top-level entry point: variant selection, editing,
// lifecycle, rendering, export, and the template store behind one type.
type Session = orchestrator.Session

// Option configures a Session.
type Option = orchestrator.Option

// RenderOptions carries per-render instructions such as the edit/view mode
// switch and server-side field errors renderers surface inline.
type RenderOptions = render.Options

// TemplateRecord is one saved template snapshot.
type TemplateRecord = registry.Record

// New constructs a ready-to-use Session: embedded variant catalog, the
// vanilla renderer bound to every variant, and an in-memory template store.
// Options swap any of those for custom implementations.
func New(options ...Option) *Session {
	return orchestrator.New(options...)
}

// RenderHTML is the simplest entry point for callers that just want the
// document HTML for a variant with a set of field overrides applied.
func RenderHTML(ctx context.Context, variantID string, overrides map[string]string, options ...Option) ([]byte, error) {
	session := orchestrator.New(options...)
	if err := session.SelectVariant(variantID); err != nil {
		return nil, err
	}
	for key, value := range overrides {
		if err := session.SetField(key, value); err != nil {
			return nil, err
		}
	}
	return session.RenderHTML(ctx, render.Options{})
}

// EmbeddedTemplates exposes the built-in document templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// BuiltinVariants exposes the embedded variant catalog.
func BuiltinVariants() *variants.Catalog {
	return variants.Default()
}

// WithTemplateStore persists saved templates through a custom store, e.g.
// registry.NewFileStore for durable snapshots.
func WithTemplateStore(store registry.Store) Option {
	return orchestrator.WithTemplateStore(store)
}

// WithCatalog swaps the variant catalog.
func WithCatalog(catalog *variants.Catalog) Option {
	return orchestrator.WithCatalog(catalog)
}

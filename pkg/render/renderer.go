package render

import (
	"context"

	"github.com/agrodocs/docforge/pkg/document"
)

// Renderer converts a document instance into a byte representation (HTML for
// the browser-facing view, potentially other targets). Implementations must
// be pure over (model, store, options): rendering twice with the same inputs
// yields the same output, so toggling edit mode can never desynchronise the
// displayed content from the stored overrides.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, instance *document.Instance, options Options) ([]byte, error)
}

package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/agrodocs/docforge/pkg/document"
	"github.com/agrodocs/docforge/pkg/render"
	rendertemplate "github.com/agrodocs/docforge/pkg/render/template"
	gotemplate "github.com/agrodocs/docforge/pkg/render/template/gotemplate"
	"github.com/agrodocs/docforge/pkg/variants"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	controls         *ControlRegistry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithControls injects a custom control registry.
func WithControls(controls *ControlRegistry) Option {
	return func(cfg *config) {
		if controls != nil {
			cfg.controls = controls
		}
	}
}

// Renderer produces the HTML document view for any variant field model. The
// per-kind layout differences (signature block on contracts, attestation on
// certificates) live in the page template; the field mechanism is shared.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	fields    *fieldRenderer
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		fields:    newFieldRenderer(cfg.controls),
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the document view. A nil instance or a model without
// fields yields empty output: "no template selected" is not an error.
func (r *Renderer) Render(_ context.Context, instance *document.Instance, options render.Options) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if instance == nil || len(instance.Model().Fields) == 0 {
		return nil, nil
	}

	m := instance.Model()

	var sections []map[string]any
	index := make(map[string]int, 4)
	for _, field := range m.Fields {
		markup, err := r.fields.renderField(instance, field, options)
		if err != nil {
			return nil, err
		}
		pos, ok := index[field.Section]
		if !ok {
			pos = len(sections)
			index[field.Section] = pos
			sections = append(sections, map[string]any{
				"name":   sectionTitle(field.Section),
				"fields": []string{},
			})
		}
		sections[pos]["fields"] = append(sections[pos]["fields"].([]string), markup)
	}

	result, err := r.templates.RenderTemplate("templates/document.tmpl", map[string]any{
		"title":    m.Title,
		"variant":  m.VariantID,
		"kind":     string(m.Kind),
		"edit":     options.EditMode,
		"sections": sections,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Register binds the renderer to every variant in the catalog, making the
// registry the single dispatch table for variant rendering.
func Register(registry *render.Registry, catalog *variants.Catalog, options ...Option) error {
	renderer, err := New(options...)
	if err != nil {
		return err
	}
	for _, id := range catalog.List() {
		if err := registry.Bind(id, renderer); err != nil {
			return err
		}
	}
	return nil
}

func sectionTitle(section string) string {
	section = strings.TrimSpace(section)
	if section == "" {
		return ""
	}
	words := strings.FieldsFunc(section, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

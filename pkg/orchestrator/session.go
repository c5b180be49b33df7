package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/agrodocs/docforge/pkg/document"
	"github.com/agrodocs/docforge/pkg/export"
	"github.com/agrodocs/docforge/pkg/registry"
	"github.com/agrodocs/docforge/pkg/render"
	"github.com/agrodocs/docforge/pkg/renderers/vanilla"
	"github.com/agrodocs/docforge/pkg/variants"
)

// ErrNoDocument is returned by operations that need a selected variant
// before one has been selected.
var ErrNoDocument = errors.New("orchestrator: no document selected")

// Option customises the session configuration.
type Option func(*Session)

// WithRenderRegistry injects a renderer registry. Without it the session
// binds the vanilla renderer to every catalog variant.
func WithRenderRegistry(reg *render.Registry) Option {
	return func(s *Session) {
		s.registry = reg
	}
}

// WithCatalog injects the variant catalog. Defaults to the embedded
// definitions.
func WithCatalog(catalog *variants.Catalog) Option {
	return func(s *Session) {
		s.catalog = catalog
	}
}

// WithTemplateStore injects the snapshot store. Defaults to in-memory.
func WithTemplateStore(store registry.Store) Option {
	return func(s *Session) {
		s.templates = store
	}
}

// WithCapturer injects the rasterization backend for PDF export.
func WithCapturer(capturer export.Capturer) Option {
	return func(s *Session) {
		s.capturer = capturer
	}
}

// WithPrinter injects the native print backend.
func WithPrinter(printer export.Printer) Option {
	return func(s *Session) {
		s.printer = printer
	}
}

// WithPendingNotifier registers a callback fired when a long-running export
// or print starts, so a host UI can surface a pending indicator.
func WithPendingNotifier(notify func(action string)) Option {
	return func(s *Session) {
		s.notifyPending = notify
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for prepare and save timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Session coordinates one operator's document workflow: variant selection,
// field edits, lifecycle transitions, rendering, export, and the snapshot
// store. Missing dependencies are initialised with the built-in
// implementations so callers can start with a single constructor call.
// Sessions are not safe for concurrent use.
type Session struct {
	registry      *render.Registry
	catalog       *variants.Catalog
	templates     registry.Store
	capturer      export.Capturer
	printer       export.Printer
	notifyPending func(action string)
	exporter      *export.Exporter
	log           *zap.Logger
	clock         func() time.Time

	instance      *document.Instance
	title         string
	initialiseErr error
}

// New constructs a Session applying any provided options.
func New(options ...Option) *Session {
	s := &Session{
		log:   zap.NewNop(),
		clock: time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.applyDefaults()
	return s
}

func (s *Session) applyDefaults() {
	if s.catalog == nil {
		s.catalog = variants.Default()
	}
	if s.templates == nil {
		s.templates = registry.NewMemoryStore()
	}
	if s.registry == nil {
		s.registry = render.NewRegistry()
		if err := vanilla.Register(s.registry, s.catalog); err != nil {
			s.initialiseErr = fmt.Errorf("orchestrator: register renderers: %w", err)
		}
	}
	s.exporter = export.New(
		export.WithCapturer(s.capturer),
		export.WithPrinter(s.printer),
		export.WithLogger(s.log),
		export.WithPendingNotifier(s.notifyPending),
	)
}

// Instance exposes the active document instance, nil before SelectVariant.
func (s *Session) Instance() *document.Instance {
	return s.instance
}

// Variants lists the ids selectable through SelectVariant.
func (s *Session) Variants() []string {
	return s.catalog.List()
}

// SelectVariant replaces the active instance with a fresh one for the named
// variant. Any unsaved edits on the previous instance are discarded, which
// mirrors the operator picking a different document type.
func (s *Session) SelectVariant(variantID string) error {
	if err := s.initialiseErr; err != nil {
		return err
	}
	m, ok := s.catalog.Get(variantID)
	if !ok {
		return fmt.Errorf("orchestrator: unknown variant %q", variantID)
	}
	s.instance = document.NewInstance(m, document.WithClock(s.clock))
	s.title = ""
	s.log.Info("variant selected", zap.String("variant", variantID))
	return nil
}

// SetField records an override on the active instance.
func (s *Session) SetField(key, value string) error {
	if s.instance == nil {
		return ErrNoDocument
	}
	if !s.instance.Model().Has(key) {
		return fmt.Errorf("orchestrator: variant %q has no field %q", s.instance.VariantID(), key)
	}
	s.instance.SetField(key, value)
	return nil
}

// ResetFields clears every override, restoring defaults.
func (s *Session) ResetFields() error {
	if s.instance == nil {
		return ErrNoDocument
	}
	s.instance.ResetFields()
	s.log.Info("fields reset", zap.String("variant", s.instance.VariantID()))
	return nil
}

// SetEditMode toggles between the editable and read-only document views.
func (s *Session) SetEditMode(enabled bool) error {
	if s.instance == nil {
		return ErrNoDocument
	}
	s.instance.SetEditMode(enabled)
	return nil
}

// Prepare validates required fields and freezes the document for export,
// print, and save.
func (s *Session) Prepare() error {
	if s.instance == nil {
		return ErrNoDocument
	}
	if err := s.instance.Prepare(); err != nil {
		if verr, ok := document.AsValidationError(err); ok {
			s.log.Warn("prepare rejected",
				zap.String("variant", s.instance.VariantID()),
				zap.Strings("missing", verr.Fields),
			)
		}
		return err
	}
	s.log.Info("document prepared", zap.String("variant", s.instance.VariantID()))
	return nil
}

// RenderHTML renders the active document. With no variant selected it
// returns empty output rather than an error, matching a dashboard that
// simply shows a blank canvas until a type is picked.
func (s *Session) RenderHTML(ctx context.Context, options render.Options) ([]byte, error) {
	if err := s.initialiseErr; err != nil {
		return nil, err
	}
	if s.instance == nil {
		return nil, nil
	}
	renderer, ok := s.registry.Lookup(s.instance.VariantID())
	if !ok {
		// No binding means no template selected: render nothing, same as
		// the pre-selection blank canvas.
		return nil, nil
	}
	// Edit markup only appears when the instance itself is in edit mode,
	// so a suspended instance renders read-only no matter what the caller
	// asked for.
	options.EditMode = options.EditMode && s.instance.EditMode()
	return renderer.Render(ctx, s.instance, options)
}

// viewRender renders the read-only document view for capture and print.
func (s *Session) viewRender() export.RenderFunc {
	return func(ctx context.Context) ([]byte, error) {
		return s.RenderHTML(ctx, render.Options{})
	}
}

// ExportPDF captures the prepared document and writes a paginated A4 PDF
// to w.
func (s *Session) ExportPDF(ctx context.Context, w io.Writer) error {
	if s.instance == nil {
		return document.ErrNotPrepared
	}
	return s.exporter.ExportPDF(ctx, s.instance, s.viewRender(), w)
}

// ExportFilename derives the artifact name for the active document: the
// snapshot title when the document was saved or loaded from one, otherwise
// the variant id plus the current date.
func (s *Session) ExportFilename() string {
	if s.instance == nil {
		return export.Filename("", "", s.clock())
	}
	return export.Filename(s.title, s.instance.VariantID(), s.clock())
}

// Print produces a print-quality PDF through the native print pathway.
func (s *Session) Print(ctx context.Context) ([]byte, error) {
	if s.instance == nil {
		return nil, document.ErrNotPrepared
	}
	return s.exporter.Print(ctx, s.instance, s.viewRender())
}

// SaveTemplate snapshots the prepared document's overrides under the given
// title and marks the instance saved.
func (s *Session) SaveTemplate(title string) (registry.Record, error) {
	if s.instance == nil {
		return registry.Record{}, ErrNoDocument
	}
	if s.instance.State() != document.StatePrepared && s.instance.State() != document.StateSaved {
		return registry.Record{}, document.ErrNotSavable
	}

	record, err := s.templates.Save(registry.Record{
		Title:     title,
		VariantID: s.instance.VariantID(),
		Overrides: s.instance.Store().Snapshot(),
		CreatedAt: s.clock(),
	})
	if err != nil {
		return registry.Record{}, err
	}
	if err := s.instance.MarkSaved(); err != nil {
		return registry.Record{}, err
	}
	s.title = record.Title
	s.log.Info("template saved",
		zap.String("id", record.ID),
		zap.String("title", record.Title),
		zap.String("variant", record.VariantID),
	)
	return record, nil
}

// Templates lists saved snapshots, most recent first.
func (s *Session) Templates() ([]registry.Record, error) {
	return s.templates.List()
}

// LoadTemplate replaces the active instance with an editable copy of the
// saved snapshot. The stored record is never aliased: edits on the loaded
// copy leave the snapshot untouched.
func (s *Session) LoadTemplate(id string) error {
	if err := s.initialiseErr; err != nil {
		return err
	}
	record, err := s.templates.Load(id)
	if err != nil {
		return err
	}
	m, ok := s.catalog.Get(record.VariantID)
	if !ok {
		return fmt.Errorf("orchestrator: template %s references unknown variant %q", id, record.VariantID)
	}
	s.instance = document.NewInstance(m,
		document.WithClock(s.clock),
		document.WithOverrides(record.Overrides),
	)
	s.title = record.Title
	s.log.Info("template loaded",
		zap.String("id", record.ID),
		zap.String("variant", record.VariantID),
	)
	return nil
}

// DeleteTemplate removes a saved snapshot.
func (s *Session) DeleteTemplate(id string) error {
	return s.templates.Delete(id)
}

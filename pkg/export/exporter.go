package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/agrodocs/docforge/pkg/document"
)

// RenderFunc produces the document HTML to capture. The exporter invokes it
// with edit mode suspended so the capture always shows the read-only view.
type RenderFunc func(ctx context.Context) ([]byte, error)

// Option configures an Exporter.
type Option func(*Exporter)

// WithCapturer injects the rasterization backend.
func WithCapturer(capturer Capturer) Option {
	return func(e *Exporter) {
		e.capturer = capturer
	}
}

// WithPrinter injects the native print backend.
func WithPrinter(printer Printer) Option {
	return func(e *Exporter) {
		e.printer = printer
	}
}

// WithLogger attaches a structured logger for action-boundary events.
func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// WithPendingNotifier registers a callback fired when a long-running export
// starts, so the host UI can surface a pending indicator.
func WithPendingNotifier(notify func(action string)) Option {
	return func(e *Exporter) {
		e.notifyPending = notify
	}
}

// Exporter owns the capture -> paginate -> assemble pipeline and the native
// print pathway. Both gate on a prepared instance and both run under the
// edit-suspend guard; at most one export or print runs at a time.
type Exporter struct {
	capturer      Capturer
	printer       Printer
	log           *zap.Logger
	notifyPending func(action string)
	inFlight      atomic.Bool
}

// New constructs an Exporter applying any provided options.
func New(options ...Option) *Exporter {
	e := &Exporter{log: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ExportPDF rasterizes the instance's read-only view and writes a paginated
// A4 PDF to w. Errors are recoverable: nothing partial is written to w until
// assembly succeeded, and edit mode is restored on every path.
func (e *Exporter) ExportPDF(ctx context.Context, instance *document.Instance, renderDoc RenderFunc, w io.Writer) error {
	if instance == nil || !instance.Exportable() {
		return document.ErrNotPrepared
	}
	if e.capturer == nil {
		return &CaptureError{Err: fmt.Errorf("no capturer configured")}
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrExportInFlight
	}
	defer e.inFlight.Store(false)

	e.pending("export")
	e.log.Info("export started", zap.String("variant", instance.VariantID()))

	var captured Image
	err := SuspendEdit(instance, func() error {
		html, err := renderDoc(ctx)
		if err != nil {
			return &CaptureError{Err: err}
		}
		if len(bytes.TrimSpace(html)) == 0 {
			return ErrNoRenderTarget
		}
		captured, err = e.capturer.Capture(ctx, string(html))
		if err != nil {
			return &CaptureError{Err: err}
		}
		return nil
	})
	if err != nil {
		e.log.Warn("export failed", zap.Error(err))
		return err
	}

	var assembled bytes.Buffer
	if err := AssemblePDF(&assembled, captured); err != nil {
		e.log.Warn("export failed", zap.Error(err))
		return err
	}
	if _, err := w.Write(assembled.Bytes()); err != nil {
		return &AssemblyError{Err: err}
	}

	e.log.Info("export finished",
		zap.String("variant", instance.VariantID()),
		zap.Int("pages", Geometry{SourceWidth: captured.Width, SourceHeight: captured.Height}.Pages()),
	)
	return nil
}

// Print renders the read-only view and hands it to the platform print
// pathway, returning the print-quality PDF bytes. It shares the prepared
// gate, the in-flight guard, and the edit-suspend discipline with ExportPDF
// but never rasterizes.
func (e *Exporter) Print(ctx context.Context, instance *document.Instance, renderDoc RenderFunc) ([]byte, error) {
	if instance == nil || !instance.Exportable() {
		return nil, document.ErrNotPrepared
	}
	if e.printer == nil {
		return nil, &CaptureError{Err: fmt.Errorf("no printer configured")}
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, ErrExportInFlight
	}
	defer e.inFlight.Store(false)

	e.pending("print")

	var output []byte
	err := SuspendEdit(instance, func() error {
		html, err := renderDoc(ctx)
		if err != nil {
			return &CaptureError{Err: err}
		}
		if len(bytes.TrimSpace(html)) == 0 {
			return ErrNoRenderTarget
		}
		output, err = e.printer.Print(ctx, string(html))
		if err != nil {
			return fmt.Errorf("export: print failed: %w", err)
		}
		return nil
	})
	if err != nil {
		e.log.Warn("print failed", zap.Error(err))
		return nil, err
	}

	e.log.Info("print finished", zap.String("variant", instance.VariantID()))
	return output, nil
}

func (e *Exporter) pending(action string) {
	if e.notifyPending != nil {
		e.notifyPending(action)
	}
}

// AssemblePDF slices the capture into A4 portrait pages and writes the
// resulting PDF to w. Each page places the full-height image at an
// increasing negative vertical offset so it shows exactly its slice.
func AssemblePDF(w io.Writer, img Image) error {
	geometry := Geometry{SourceWidth: img.Width, SourceHeight: img.Height}
	pages := geometry.Pages()
	if pages == 0 || len(img.Data) == 0 {
		return &AssemblyError{Err: fmt.Errorf("capture has no drawable area (%dx%d)", img.Width, img.Height)}
	}

	scaledHeight := geometry.ScaledHeight(PageWidth)

	pdf := fpdf.New("P", "mm", "A4", "")
	options := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", options, bytes.NewReader(img.Data))
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		pdf.ImageOptions("capture", 0, -PageHeight*float64(page), PageWidth, scaledHeight, false, options, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return &AssemblyError{Err: err}
	}
	return nil
}

package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/agrodocs/docforge/pkg/document"
	"github.com/agrodocs/docforge/pkg/export"
	"github.com/agrodocs/docforge/pkg/render"
)

func pngImage(t *testing.T, width, height int) export.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return export.Image{Data: buf.Bytes(), Width: width, Height: height}
}

type fakeCapturer struct {
	image export.Image
	calls int
}

func (f *fakeCapturer) Capture(ctx context.Context, html string) (export.Image, error) {
	f.calls++
	return f.image, nil
}

type fakePrinter struct {
	calls int
}

func (f *fakePrinter) Print(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.7 native print"), nil
}

func fillContract(t *testing.T, s *Session) {
	t.Helper()
	for key, value := range map[string]string{
		"contract_no":   "GG-2026-041",
		"contract_date": "2026-03-14",
		"buyer":         "Hamburg Coffee Traders GmbH",
	} {
		if err := s.SetField(key, value); err != nil {
			t.Fatalf("SetField(%q) failed: %v", key, err)
		}
	}
}

func TestSessionWorkflow(t *testing.T) {
	printer := &fakePrinter{}
	s := New(WithPrinter(printer))

	if got := len(s.Variants()); got != 9 {
		t.Fatalf("Variants() returned %d ids, want 9 built-ins", got)
	}

	// Nothing selected yet: rendering yields empty output, not an error.
	html, err := s.RenderHTML(context.Background(), render.Options{})
	if err != nil {
		t.Fatalf("RenderHTML before selection failed: %v", err)
	}
	if len(html) != 0 {
		t.Fatal("expected empty render before variant selection")
	}
	if err := s.SetField("buyer", "x"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("SetField before selection err = %v, want ErrNoDocument", err)
	}

	if err := s.SelectVariant("nope"); err == nil {
		t.Fatal("unknown variant should fail selection")
	}
	if err := s.SelectVariant("coffee-contract"); err != nil {
		t.Fatalf("SelectVariant failed: %v", err)
	}

	if _, err := s.Print(context.Background()); !errors.Is(err, document.ErrNotPrepared) {
		t.Fatalf("Print before prepare err = %v, want ErrNotPrepared", err)
	}

	if err := s.Prepare(); err == nil {
		t.Fatal("Prepare should fail with required fields empty")
	}
	fillContract(t, s)
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	html, err = s.RenderHTML(context.Background(), render.Options{})
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(string(html), "Hamburg Coffee Traders GmbH") {
		t.Fatal("rendered document missing buyer override")
	}

	pdf, err := s.Print(context.Background())
	if err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("Print output = %q", pdf)
	}
	if printer.calls != 1 {
		t.Fatalf("printer called %d times, want 1", printer.calls)
	}

	// Mutation after prepare revokes export until re-prepared.
	if err := s.SetField("buyer", "Someone Else BV"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if _, err := s.Print(context.Background()); !errors.Is(err, document.ErrNotPrepared) {
		t.Fatalf("Print after mutation err = %v, want ErrNotPrepared", err)
	}
}

func TestSessionSaveAndLoadTemplate(t *testing.T) {
	s := New()

	if err := s.SelectVariant("coffee-contract"); err != nil {
		t.Fatalf("SelectVariant failed: %v", err)
	}
	fillContract(t, s)

	if _, err := s.SaveTemplate("Sidama Q1"); !errors.Is(err, document.ErrNotSavable) {
		t.Fatalf("save before prepare err = %v, want ErrNotSavable", err)
	}

	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	record, err := s.SaveTemplate("Sidama Q1")
	if err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}
	if s.Instance().State() != document.StateSaved {
		t.Fatalf("state = %q after save, want saved", s.Instance().State())
	}

	records, err := s.Templates()
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != record.ID {
		t.Fatalf("Templates() = %+v, want the saved record", records)
	}

	if err := s.LoadTemplate(record.ID); err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	loaded := s.Instance()
	if loaded.State() != document.StateEditing {
		t.Fatalf("loaded state = %q, want editing", loaded.State())
	}
	if got := loaded.EffectiveValue("buyer"); got != "Hamburg Coffee Traders GmbH" {
		t.Fatalf("loaded buyer = %q", got)
	}

	// Editing the loaded copy must not touch the stored snapshot.
	if err := s.SetField("buyer", "Changed After Load"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	stored, err := s.templates.Load(record.ID)
	if err != nil {
		t.Fatalf("Load record failed: %v", err)
	}
	if got := stored.Overrides["buyer"]; got != "Hamburg Coffee Traders GmbH" {
		t.Fatalf("stored snapshot mutated: buyer = %q", got)
	}
}

func TestSessionExportSuspendsEditMode(t *testing.T) {
	capturer := &fakeCapturer{image: pngImage(t, 400, 1200)}
	s := New(WithCapturer(capturer))

	if err := s.SelectVariant("coffee-contract"); err != nil {
		t.Fatalf("SelectVariant failed: %v", err)
	}
	fillContract(t, s)
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := s.SetEditMode(true); err != nil {
		t.Fatalf("SetEditMode failed: %v", err)
	}

	var out bytes.Buffer
	if err := s.ExportPDF(context.Background(), &out); err != nil {
		t.Fatalf("ExportPDF failed: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Fatal("export output is not a PDF")
	}
	if capturer.calls != 1 {
		t.Fatalf("capturer called %d times, want 1", capturer.calls)
	}
	if !s.Instance().EditMode() {
		t.Fatal("edit mode not restored after export")
	}

	name := s.ExportFilename()
	if !strings.HasSuffix(name, ".pdf") || !strings.Contains(name, "coffee-contract") {
		t.Fatalf("ExportFilename() = %q", name)
	}
}

func TestSessionRenderWithoutBindingIsEmpty(t *testing.T) {
	// An empty render registry means no template is bound to any variant;
	// rendering then yields nothing rather than an error, same as the
	// blank canvas before a variant is selected.
	s := New(WithRenderRegistry(render.NewRegistry()))

	if err := s.SelectVariant("coffee-contract"); err != nil {
		t.Fatalf("SelectVariant failed: %v", err)
	}
	html, err := s.RenderHTML(context.Background(), render.Options{})
	if err != nil {
		t.Fatalf("RenderHTML with unbound variant failed: %v", err)
	}
	if len(html) != 0 {
		t.Fatalf("expected empty output for unbound variant, got %d bytes", len(html))
	}
}

func TestExportFilenameUsesSnapshotTitle(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))

	if err := s.SelectVariant("coffee-contract"); err != nil {
		t.Fatalf("SelectVariant failed: %v", err)
	}

	// No snapshot title yet: variant id plus date.
	if got, want := s.ExportFilename(), "coffee-contract-2026-03-14.pdf"; got != want {
		t.Fatalf("ExportFilename() = %q, want %q", got, want)
	}

	fillContract(t, s)
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	record, err := s.SaveTemplate("Sidama Q1")
	if err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}
	if got, want := s.ExportFilename(), "Sidama-Q1.pdf"; got != want {
		t.Fatalf("ExportFilename() after save = %q, want %q", got, want)
	}

	// The loaded copy keeps the snapshot's title.
	if err := s.LoadTemplate(record.ID); err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if got, want := s.ExportFilename(), "Sidama-Q1.pdf"; got != want {
		t.Fatalf("ExportFilename() after load = %q, want %q", got, want)
	}

	// Picking a variant starts a new untitled document.
	if err := s.SelectVariant("coffee-shipment"); err != nil {
		t.Fatalf("SelectVariant failed: %v", err)
	}
	if got, want := s.ExportFilename(), "coffee-shipment-2026-03-14.pdf"; got != want {
		t.Fatalf("ExportFilename() after reselect = %q, want %q", got, want)
	}
}

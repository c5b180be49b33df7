package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/agrodocs/docforge/pkg/document"
	"github.com/agrodocs/docforge/pkg/model"
)

func preparedInstance(t *testing.T) *document.Instance {
	t.Helper()

	m := model.FieldModel{
		VariantID: "coffee-contract",
		Title:     "Coffee Export Contract",
		Kind:      model.KindContract,
		Fields: []model.FieldDefinition{
			{Key: "buyer", Kind: model.KindShortText, Required: true},
			{Key: "origin", Kind: model.KindShortText, Default: "Sidama, Ethiopia"},
		},
	}
	inst := document.NewInstance(m)
	inst.SetField("buyer", "Hamburg Coffee Traders GmbH")
	if err := inst.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	return inst
}

func pngCapture(t *testing.T, width, height int) Image {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return Image{Data: buf.Bytes(), Width: width, Height: height}
}

type stubCapturer struct {
	image   Image
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
}

func (s *stubCapturer) Capture(ctx context.Context, html string) (Image, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return Image{}, s.err
	}
	return s.image, nil
}

func staticHTML(html string) RenderFunc {
	return func(context.Context) ([]byte, error) {
		return []byte(html), nil
	}
}

func TestExportPDFWritesPaginatedArtifact(t *testing.T) {
	capturer := &stubCapturer{image: pngCapture(t, 400, 1200)}
	var pendingActions []string
	exporter := New(
		WithCapturer(capturer),
		WithPendingNotifier(func(action string) { pendingActions = append(pendingActions, action) }),
	)

	inst := preparedInstance(t)
	var out bytes.Buffer
	if err := exporter.ExportPDF(context.Background(), inst, staticHTML("<html>doc</html>"), &out); err != nil {
		t.Fatalf("ExportPDF failed: %v", err)
	}

	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", out.Bytes()[:min(8, out.Len())])
	}
	if !inst.EditMode() {
		t.Fatal("edit mode not restored after export")
	}
	if len(pendingActions) != 1 || pendingActions[0] != "export" {
		t.Fatalf("pending notifications = %v, want [export]", pendingActions)
	}
}

func TestExportPDFRequiresPreparedInstance(t *testing.T) {
	capturer := &stubCapturer{image: pngCapture(t, 400, 400)}
	exporter := New(WithCapturer(capturer))

	m := model.FieldModel{VariantID: "v", Fields: []model.FieldDefinition{{Key: "a", Kind: model.KindShortText}}}
	inst := document.NewInstance(m)

	var out bytes.Buffer
	err := exporter.ExportPDF(context.Background(), inst, staticHTML("<html></html>"), &out)
	if !errors.Is(err, document.ErrNotPrepared) {
		t.Fatalf("err = %v, want ErrNotPrepared", err)
	}
	if out.Len() != 0 {
		t.Fatal("partial artifact written despite gate failure")
	}
	if capturer.calls != 0 {
		t.Fatal("capture ran despite gate failure")
	}
}

func TestExportPDFCaptureFailureLeavesNoArtifact(t *testing.T) {
	capturer := &stubCapturer{err: errors.New("browser crashed")}
	exporter := New(WithCapturer(capturer))

	inst := preparedInstance(t)
	var out bytes.Buffer
	err := exporter.ExportPDF(context.Background(), inst, staticHTML("<html>doc</html>"), &out)

	var captureErr *CaptureError
	if !errors.As(err, &captureErr) {
		t.Fatalf("err = %v, want *CaptureError", err)
	}
	if out.Len() != 0 {
		t.Fatal("partial artifact written after capture failure")
	}
	if !inst.EditMode() {
		t.Fatal("edit mode not restored after capture failure")
	}
}

func TestExportPDFEmptyRenderIsNoTarget(t *testing.T) {
	capturer := &stubCapturer{image: pngCapture(t, 400, 400)}
	exporter := New(WithCapturer(capturer))

	inst := preparedInstance(t)
	var out bytes.Buffer
	err := exporter.ExportPDF(context.Background(), inst, staticHTML("   \n"), &out)
	if !errors.Is(err, ErrNoRenderTarget) {
		t.Fatalf("err = %v, want ErrNoRenderTarget", err)
	}
	if capturer.calls != 0 {
		t.Fatal("capture ran without a render target")
	}
}

func TestExportPDFSingleFlight(t *testing.T) {
	capturer := &stubCapturer{
		image:   pngCapture(t, 400, 400),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	exporter := New(WithCapturer(capturer))
	inst := preparedInstance(t)

	done := make(chan error, 1)
	go func() {
		var out bytes.Buffer
		done <- exporter.ExportPDF(context.Background(), inst, staticHTML("<html>doc</html>"), &out)
	}()

	<-capturer.started

	var out bytes.Buffer
	if err := exporter.ExportPDF(context.Background(), inst, staticHTML("<html>doc</html>"), &out); !errors.Is(err, ErrExportInFlight) {
		t.Fatalf("concurrent export err = %v, want ErrExportInFlight", err)
	}

	close(capturer.release)
	if err := <-done; err != nil {
		t.Fatalf("first export failed: %v", err)
	}
}

type stubPrinter struct {
	output []byte
	err    error
}

func (s *stubPrinter) Print(ctx context.Context, html string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

func TestPrintReturnsPlatformPDF(t *testing.T) {
	exporter := New(WithPrinter(&stubPrinter{output: []byte("%PDF-1.7 native")}))
	inst := preparedInstance(t)

	got, err := exporter.Print(context.Background(), inst, staticHTML("<html>doc</html>"))
	if err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF")) {
		t.Fatalf("print output = %q, want PDF bytes", got)
	}
	if !inst.EditMode() {
		t.Fatal("edit mode not restored after print")
	}
}

func TestPrintRequiresPreparedInstance(t *testing.T) {
	exporter := New(WithPrinter(&stubPrinter{output: []byte("%PDF")}))

	m := model.FieldModel{VariantID: "v", Fields: []model.FieldDefinition{{Key: "a", Kind: model.KindShortText}}}
	inst := document.NewInstance(m)

	if _, err := exporter.Print(context.Background(), inst, staticHTML("<html></html>")); !errors.Is(err, document.ErrNotPrepared) {
		t.Fatalf("err = %v, want ErrNotPrepared", err)
	}
}

func TestSuspendEditRestoresOnError(t *testing.T) {
	inst := preparedInstance(t)
	inst.SetEditMode(true)

	wantErr := errors.New("boom")
	err := SuspendEdit(inst, func() error {
		if inst.EditMode() {
			t.Fatal("edit mode still on inside suspension")
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if !inst.EditMode() {
		t.Fatal("edit mode not restored after error")
	}
}

func TestSuspendEditRestoresOnPanic(t *testing.T) {
	inst := preparedInstance(t)
	inst.SetEditMode(true)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = SuspendEdit(inst, func() error { panic("capture blew up") })
	}()

	if !inst.EditMode() {
		t.Fatal("edit mode not restored after panic")
	}
}

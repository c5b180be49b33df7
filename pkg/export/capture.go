package export

import "context"

// Image is a rasterized document capture plus its pixel geometry. It lives
// only long enough to be sliced into pages.
type Image struct {
	// Data holds the encoded PNG bytes.
	Data   []byte
	Width  int
	Height int
}

// Capturer rasterizes rendered HTML into a single full-height image. The
// browser-backed implementation lives in internal/browser; tests substitute
// fakes.
type Capturer interface {
	Capture(ctx context.Context, html string) (Image, error)
}

// Printer produces a print-quality PDF straight from HTML via the platform
// print pathway, bypassing rasterization.
type Printer interface {
	Print(ctx context.Context, html string) ([]byte, error)
}

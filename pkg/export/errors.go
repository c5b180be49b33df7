package export

import (
	"errors"
	"fmt"
)

// ErrExportInFlight rejects re-entrant export or print while one is running.
var ErrExportInFlight = errors.New("export: an export is already in flight")

// ErrNoRenderTarget means the document produced no renderable output, so
// there is nothing to capture. No partial artifact is written.
var ErrNoRenderTarget = errors.New("export: no rendered document to capture")

// CaptureError wraps a rasterization failure. Recoverable: edit mode has
// been restored and no partial artifact exists.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("export: capture failed: %v", e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// AssemblyError wraps a page-assembly failure, handled like CaptureError.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("export: page assembly failed: %v", e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

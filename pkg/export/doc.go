// Package export turns a rendered document into a paginated A4 PDF or a
// native print stream. The PDF path rasterizes the document view into a
// single tall image and slices it into pages by placing the full image at
// increasing negative vertical offsets; pagination is a pure function of the
// capture geometry, never of the content. The print path hands the same HTML
// to the platform's print-to-PDF implementation and skips rasterization
// entirely.
package export

package export

import "math"

// ISO A4 portrait in output units (millimetres).
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// Geometry describes a captured document image in source pixels.
type Geometry struct {
	SourceWidth  int
	SourceHeight int
}

// ScaledHeight returns the capture height after scaling the image to span
// pageWidth: the same scale factor applied to the width is applied to the
// height.
func (g Geometry) ScaledHeight(pageWidth float64) float64 {
	if g.SourceWidth <= 0 || g.SourceHeight <= 0 {
		return 0
	}
	return float64(g.SourceHeight) * (pageWidth / float64(g.SourceWidth))
}

// PageCount returns how many pageHeight slices the scaled capture spans. An
// exact multiple of the page height yields exactly that many pages; the
// epsilon absorbs float error so a k-page document never becomes k+1 pages.
func (g Geometry) PageCount(pageWidth, pageHeight float64) int {
	scaled := g.ScaledHeight(pageWidth)
	if scaled <= 0 || pageHeight <= 0 {
		return 0
	}
	return int(math.Ceil(scaled/pageHeight - 1e-9))
}

// Pages returns the page count for the default A4 geometry.
func (g Geometry) Pages() int {
	return g.PageCount(PageWidth, PageHeight)
}

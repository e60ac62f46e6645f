package goslide

// Slide documents are laid out in CSS pixels (96 per inch); importers convert
// from the source unit before building shapes. 1 inch = 72 pt = 96 px.

const (
	pxPerInch = 96
	ptPerInch = 72

	// PixelsPerPoint is the exact pt->px factor.
	PixelsPerPoint = float64(pxPerInch) / ptPerInch
)

// Point converts points to pixels.
func Point(n float64) float64 {
	return n * PixelsPerPoint
}

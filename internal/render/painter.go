// Package render paints resolved card layouts. One shared walk over the
// geometry, text fitting and image placement drives a small Painter
// capability set; only the Painter differs between the vector and raster
// backends, so the two outputs cannot drift in layout math.
package render

import (
	"image"
	"image/color"

	"github.com/cardforge/card-engine/internal/imagefit"
	"github.com/cardforge/card-engine/internal/layout"
)

// Painter is the capability set a backend exposes to the shared card walk.
// All coordinates arrive in canonical layout space (top-left origin, y down,
// points); the painter translates into its native space and units.
type Painter interface {
	// FillPage paints the page background. Not called for transparent pages.
	FillPage(c color.RGBA)
	// FillRect paints a filled rectangle with no stroke.
	FillRect(r layout.Rect, c color.RGBA)
	// StrokeLine paints one straight segment. Border edges arrive as
	// independent segments per side; corners are not joined.
	StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA)
	// DrawText paints a single line anchored at its left edge and baseline.
	DrawText(text string, x, baseline, size float64, c color.RGBA)
	// DrawImage paints img scaled into the placement rectangle, clipped to
	// clip. The placement can overflow the clip on one axis (fill policy).
	DrawImage(img image.Image, p imagefit.Placement, clip layout.Rect) error
	// Close finalizes the document and returns its encoded bytes. The
	// painter is unusable afterwards.
	Close() ([]byte, error)
}

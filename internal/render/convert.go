package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/cardforge/card-engine/internal/imagefit"
	"github.com/cardforge/card-engine/internal/layout"
)

// ImageToPDF wraps a raster image in a single-page PDF of pageW by pageH
// points, letterboxed with the fit policy. With centered false the image is
// anchored at the bottom-left corner of the page.
func ImageToPDF(img image.Image, pageW, pageH float64, centered bool) ([]byte, error) {
	page := layout.Rect{W: pageW, H: pageH}
	pl, err := imagefit.Fit(page, img.Bounds().Dx(), img.Bounds().Dy(), centered)
	if err != nil {
		return nil, fmt.Errorf("page placement: %w", err)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, pageW*ptToMM, pageH*ptToMM, nil)
	c := canvas.New(pageW*ptToMM, pageH*ptToMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	dpmm := float64(img.Bounds().Dx()) / (pl.W * ptToMM)
	ctx.DrawImage(pl.X*ptToMM, pl.Y*ptToMM, img, canvas.DPMM(dpmm))

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/cardforge/card-engine/internal/imagefit"
	"github.com/cardforge/card-engine/internal/layout"
)

// ptToMM converts layout points into the millimetres the canvas operates in.
const ptToMM = 25.4 / 72

// VectorPainter renders one card as a single-page PDF. The canvas context is
// switched into quadrant IV so its coordinates match the canonical top-left,
// y-down layout space; only the pt to mm unit conversion remains.
type VectorPainter struct {
	buf    bytes.Buffer
	writer *pdf.PDF
	c      *canvas.Canvas
	ctx    *canvas.Context
	family *canvas.FontFamily
	pageW  float64 // mm
	pageH  float64 // mm
}

var _ Painter = (*VectorPainter)(nil)

// NewVectorPainter opens a PDF page of pageW by pageH points.
func NewVectorPainter(pageW, pageH float64, fonts *FontSource) (*VectorPainter, error) {
	family := canvas.NewFontFamily("card")
	if err := family.LoadFont(fonts.Bytes(), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("failed to load font into canvas: %w", err)
	}

	p := &VectorPainter{
		family: family,
		pageW:  pageW * ptToMM,
		pageH:  pageH * ptToMM,
	}
	p.writer = pdf.New(&p.buf, p.pageW, p.pageH, nil)
	p.c = canvas.New(p.pageW, p.pageH)
	p.ctx = canvas.NewContext(p.c)
	p.ctx.SetCoordSystem(canvas.CartesianIV)
	return p, nil
}

func (p *VectorPainter) FillPage(c color.RGBA) {
	p.ctx.SetFillColor(c)
	p.ctx.SetStrokeColor(canvas.Transparent)
	p.ctx.DrawPath(0, 0, canvas.Rectangle(p.pageW, p.pageH))
}

func (p *VectorPainter) FillRect(r layout.Rect, c color.RGBA) {
	p.ctx.SetFillColor(c)
	p.ctx.SetStrokeColor(canvas.Transparent)
	p.ctx.DrawPath(r.X*ptToMM, r.Y*ptToMM, canvas.Rectangle(r.W*ptToMM, r.H*ptToMM))
}

func (p *VectorPainter) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA) {
	p.ctx.SetStrokeColor(c)
	p.ctx.SetStrokeWidth(width * ptToMM)
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo((x2-x1)*ptToMM, (y2-y1)*ptToMM)
	p.ctx.DrawPath(x1*ptToMM, y1*ptToMM, path)
}

func (p *VectorPainter) DrawText(text string, x, baseline, size float64, c color.RGBA) {
	// Face sizes stay in points; only coordinates convert to mm.
	face := p.family.Face(size, c, canvas.FontRegular, canvas.FontNormal)
	line := canvas.NewTextLine(face, text, canvas.Left)
	p.ctx.DrawText(x*ptToMM, baseline*ptToMM, line)
}

func (p *VectorPainter) DrawImage(img image.Image, pl imagefit.Placement, clip layout.Rect) error {
	visible, cropped, err := clipImage(img, pl, clip)
	if err != nil {
		return err
	}

	dpmm := float64(cropped.Bounds().Dx()) / (visible.W * ptToMM)
	p.ctx.DrawImage(visible.X*ptToMM, visible.Y*ptToMM, cropped, canvas.DPMM(dpmm))
	return nil
}

// Close flushes the page into the PDF and returns its bytes.
func (p *VectorPainter) Close() ([]byte, error) {
	p.c.RenderTo(p.writer)
	if err := p.writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return p.buf.Bytes(), nil
}

// clipImage crops the source image to the part of the placement that is
// inside the clip rectangle, keeping original pixels for the vector backend.
// Returns the visible rectangle in layout space and the cropped pixels.
func clipImage(img image.Image, pl imagefit.Placement, clip layout.Rect) (layout.Rect, image.Image, error) {
	visible := intersect(layout.Rect{X: pl.X, Y: pl.Y, W: pl.W, H: pl.H}, clip)
	if visible.W <= 0 || visible.H <= 0 {
		return layout.Rect{}, nil, fmt.Errorf("image placement entirely outside its box")
	}

	sx0 := (visible.X - pl.X) / pl.Scale
	sy0 := (visible.Y - pl.Y) / pl.Scale
	sx1 := sx0 + visible.W/pl.Scale
	sy1 := sy0 + visible.H/pl.Scale

	cropped := imaging.Crop(img, image.Rect(
		int(math.Floor(sx0)), int(math.Floor(sy0)),
		int(math.Ceil(sx1)), int(math.Ceil(sy1)),
	))
	return visible, cropped, nil
}

func intersect(a, b layout.Rect) layout.Rect {
	x0 := math.Max(a.X, b.X)
	y0 := math.Max(a.Y, b.Y)
	x1 := math.Min(a.Right(), b.Right())
	y1 := math.Min(a.Bottom(), b.Bottom())
	return layout.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/cardforge/card-engine/internal/imagefit"
	"github.com/cardforge/card-engine/internal/layout"
)

// DefaultScale is the raster magnification factor: every layout length is
// multiplied by it, so a 216pt page becomes an 864px image.
const DefaultScale = 4

// RasterPainter renders one card as a PNG. The gg context already uses a
// top-left, y-down space, so the painter only applies the integer
// magnification factor. A page that is never filled stays fully transparent.
type RasterPainter struct {
	ctx   *gg.Context
	scale float64
	fonts *FontSource
}

var _ Painter = (*RasterPainter)(nil)

// NewRasterPainter opens a canvas of pageW by pageH points at the given
// integer magnification.
func NewRasterPainter(pageW, pageH float64, scale int, fonts *FontSource) (*RasterPainter, error) {
	if scale < 1 {
		return nil, fmt.Errorf("magnification factor must be a positive integer, got %d", scale)
	}

	s := float64(scale)
	ctx := gg.NewContext(int(math.Round(pageW*s)), int(math.Round(pageH*s)))
	return &RasterPainter{ctx: ctx, scale: s, fonts: fonts}, nil
}

func (p *RasterPainter) FillPage(c color.RGBA) {
	p.ctx.SetColor(c)
	p.ctx.Clear()
}

func (p *RasterPainter) FillRect(r layout.Rect, c color.RGBA) {
	p.ctx.SetColor(c)
	p.ctx.DrawRectangle(r.X*p.scale, r.Y*p.scale, r.W*p.scale, r.H*p.scale)
	p.ctx.Fill()
}

func (p *RasterPainter) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA) {
	p.ctx.SetColor(c)
	p.ctx.SetLineWidth(width * p.scale)
	p.ctx.DrawLine(x1*p.scale, y1*p.scale, x2*p.scale, y2*p.scale)
	p.ctx.Stroke()
}

func (p *RasterPainter) DrawText(text string, x, baseline, size float64, c color.RGBA) {
	// The face is sized in magnified pixels so text scales with the page.
	p.ctx.SetFontFace(p.fonts.Face(size * p.scale))
	p.ctx.SetColor(c)
	p.ctx.DrawString(text, x*p.scale, baseline*p.scale)
}

func (p *RasterPainter) DrawImage(img image.Image, pl imagefit.Placement, clip layout.Rect) error {
	w := int(math.Round(pl.W * p.scale))
	h := int(math.Round(pl.H * p.scale))
	if w < 1 || h < 1 {
		return fmt.Errorf("image placement degenerates to %dx%d pixels", w, h)
	}
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	p.ctx.Push()
	p.ctx.DrawRectangle(clip.X*p.scale, clip.Y*p.scale, clip.W*p.scale, clip.H*p.scale)
	p.ctx.Clip()
	p.ctx.DrawImage(resized, int(math.Round(pl.X*p.scale)), int(math.Round(pl.Y*p.scale)))
	p.ctx.ResetClip()
	p.ctx.Pop()
	return nil
}

// Close encodes the canvas as PNG.
func (p *RasterPainter) Close() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, p.ctx.Image(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

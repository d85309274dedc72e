package render

import (
	"fmt"

	"github.com/cardforge/card-engine/pkg/cardformat"
)

// RenderPDF renders one card as a single-page vector PDF sized exactly to
// the configured page.
func RenderPDF(cfg *cardformat.Config, req Request, fonts *FontSource) ([]byte, error) {
	p, err := NewVectorPainter(cfg.PageWidth, cfg.PageHeight, fonts)
	if err != nil {
		return nil, err
	}
	if err := PaintCard(cfg, req, fonts, p); err != nil {
		return nil, err
	}
	return p.Close()
}

// RenderPNG renders one card as a PNG at the given integer magnification.
func RenderPNG(cfg *cardformat.Config, req Request, fonts *FontSource, scale int) ([]byte, error) {
	p, err := NewRasterPainter(cfg.PageWidth, cfg.PageHeight, scale, fonts)
	if err != nil {
		return nil, err
	}
	if err := PaintCard(cfg, req, fonts, p); err != nil {
		return nil, err
	}
	return p.Close()
}

// Render dispatches on the output format, "pdf" or "png".
func Render(format string, cfg *cardformat.Config, req Request, fonts *FontSource, scale int) ([]byte, error) {
	switch format {
	case "pdf":
		return RenderPDF(cfg, req, fonts)
	case "png":
		return RenderPNG(cfg, req, fonts, scale)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

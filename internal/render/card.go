package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/cardforge/card-engine/internal/imagefit"
	"github.com/cardforge/card-engine/internal/layout"
	"github.com/cardforge/card-engine/internal/textfit"
	"github.com/cardforge/card-engine/pkg/cardformat"
)

// Request is one card to render. Photo and QR are already decoded; QR is
// shared across a run and must not be mutated.
type Request struct {
	Name  string
	Photo image.Image
	QR    image.Image
}

var textColor = color.RGBA{A: 255}

// MessageLines splits the configured message on explicit <br/> breaks. The
// message is fixed per run, never auto-broken.
func MessageLines(text string) []string {
	parts := strings.Split(text, "<br/>")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, strings.TrimSpace(p))
	}
	return lines
}

// PaintCard walks the resolved layout for one request and drives the painter:
// page background, photo, then each section's fill, border edges and content.
// The painter is not closed; the caller owns finalization on every path.
func PaintCard(cfg *cardformat.Config, req Request, fonts *FontSource, p Painter) error {
	if req.Name == "" {
		return fmt.Errorf("request has no display name")
	}

	card := layout.Resolve(cfg, req.Name)
	m := fonts.Metrics()

	if card.Background != "" {
		bg, err := cardformat.ParseColor(card.Background)
		if err != nil {
			return fmt.Errorf("invalid background color: %w", err)
		}
		p.FillPage(bg)
	}

	photo := card.Section(layout.SectionPhoto)
	placement, err := imagefit.Fill(photo.Rect, req.Photo.Bounds().Dx(), req.Photo.Bounds().Dy())
	if err != nil {
		return fmt.Errorf("photo placement: %w", err)
	}
	if err := p.DrawImage(req.Photo, placement, photo.Rect); err != nil {
		return fmt.Errorf("failed to draw photo: %w", err)
	}

	for _, section := range card.Sections {
		if section.Fill != "" {
			fill, err := cardformat.ParseColor(section.Fill)
			if err != nil {
				return fmt.Errorf("section %s fill: %w", section.Name, err)
			}
			p.FillRect(section.Rect, fill)
		}
		if err := paintBorders(p, section); err != nil {
			return fmt.Errorf("section %s border: %w", section.Name, err)
		}
	}

	name := card.Section(layout.SectionName)
	block, err := fitName(cfg, card, req.Name, name.Rect, m)
	if err != nil {
		return fmt.Errorf("failed to fit name %q: %w", req.Name, err)
	}
	paintBlock(p, block)

	if req.QR != nil {
		qrPlacement, err := imagefit.Fit(card.QRCode, req.QR.Bounds().Dx(), req.QR.Bounds().Dy(), true)
		if err != nil {
			return fmt.Errorf("qr placement: %w", err)
		}
		if err := p.DrawImage(req.QR, qrPlacement, card.QRCode); err != nil {
			return fmt.Errorf("failed to draw qr code: %w", err)
		}
	}

	message := card.Section(layout.SectionMessage)
	lines := MessageLines(cfg.MessageText)
	size := shrinkToWidest(lines, cfg.MessageFontSize, message.Rect.W-2*cfg.TextPadding, m)
	paintBlock(p, textfit.BlockLines(lines,
		message.Rect.X, message.Rect.Y, message.Rect.W, message.Rect.H,
		size, textfit.MessagePitchFactor, m))

	return nil
}

// fitName fits the display name into the name box per the selected tier:
// single shrunk line on the short tier, broken and block-centered lines on
// the long tier.
func fitName(cfg *cardformat.Config, card *layout.Card, name string, box layout.Rect, m textfit.Metrics) (textfit.Block, error) {
	tier := card.NameTier
	if !tier.Multiline {
		return textfit.SingleLine(name, box.X, box.Y, box.W, box.H, tier.FontSize, cfg.TextPadding, m), nil
	}

	policy, err := textfit.ParseOverflow(cfg.NameOverflow)
	if err != nil {
		return textfit.Block{}, err
	}
	lines, err := textfit.BreakLines(name, cfg.NameLengthThreshold, tier.MaxLines, policy)
	if err != nil {
		return textfit.Block{}, err
	}

	size := shrinkToWidest(lines, tier.FontSize, box.W-2*cfg.TextPadding, m)
	return textfit.BlockLines(lines, box.X, box.Y, box.W, box.H, size, textfit.NamePitchFactor, m), nil
}

// shrinkToWidest shrinks the font so the widest line fits, keeping one size
// for the whole block.
func shrinkToWidest(lines []string, size, maxWidth float64, m textfit.Metrics) float64 {
	widest := ""
	widestW := 0.0
	for _, line := range lines {
		if w := m.TextWidth(line, size); w > widestW {
			widest, widestW = line, w
		}
	}
	if widest == "" {
		return size
	}
	return textfit.ShrinkToWidth(widest, size, maxWidth, m)
}

func paintBlock(p Painter, block textfit.Block) {
	for _, line := range block.Lines {
		p.DrawText(line.Text, line.X, line.Baseline, block.FontSize, textColor)
	}
}

// paintBorders strokes each configured edge as its own segment. Corners are
// plain overlaps, not joins.
func paintBorders(p Painter, s layout.Section) error {
	b := s.Border
	if len(b.Sides) == 0 {
		return nil
	}

	// Width 0 is a deliberate "no stroke"; defaults for absent keys are
	// applied at parse time.
	if b.Width <= 0 {
		return nil
	}
	hex := b.Color
	if hex == "" {
		hex = cardformat.DefaultBorderColor
	}
	col, err := cardformat.ParseColor(hex)
	if err != nil {
		return err
	}

	r := s.Rect
	for _, side := range b.Sides {
		switch side {
		case "top":
			p.StrokeLine(r.X, r.Y, r.Right(), r.Y, b.Width, col)
		case "bottom":
			p.StrokeLine(r.X, r.Bottom(), r.Right(), r.Bottom(), b.Width, col)
		case "left":
			p.StrokeLine(r.X, r.Y, r.X, r.Bottom(), b.Width, col)
		case "right":
			p.StrokeLine(r.Right(), r.Y, r.Right(), r.Bottom(), b.Width, col)
		default:
			return fmt.Errorf("unknown border side %q", side)
		}
	}
	return nil
}

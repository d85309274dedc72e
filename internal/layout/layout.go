// Package layout resolves a card template into absolute section geometry.
//
// All rectangles are in the canonical layout space: origin at the top-left
// of the page, y increasing downward, lengths in points. Backends translate
// this space into their own convention at paint time; the resolved layout is
// never mutated after Resolve returns.
package layout

import (
	"github.com/cardforge/card-engine/pkg/cardformat"
)

// Section names, in stacking order.
const (
	SectionPhoto   = "photo"
	SectionName    = "name"
	SectionQR      = "qr"
	SectionMessage = "message"
	SectionBottom  = "bottom"
)

// Rect is an axis-aligned rectangle in canonical layout space.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the rectangle's lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Border describes which edges of a section are stroked.
type Border struct {
	Sides []string
	Width float64
	Color string
}

// Section is one horizontal band of the card.
type Section struct {
	Name   string
	Rect   Rect
	Fill   string // hex fill behind the section content, "" for none
	Border Border
}

// Tier carries the name-box parameters selected for a request.
type Tier struct {
	Long      bool
	FontSize  float64
	Multiline bool
	MaxLines  int
}

// Card is the resolved layout for a single render request. It is rebuilt per
// request because the display name length selects the name tier.
type Card struct {
	PageW, PageH float64
	Background   string // "" when transparent
	Sections     []Section
	QRCode       Rect // fixed square centered inside the qr section
	NameTier     Tier
}

// Section returns the named section, or nil when the template has none
// (the bottom box is optional).
func (c *Card) Section(name string) *Section {
	for i := range c.Sections {
		if c.Sections[i].Name == name {
			return &c.Sections[i]
		}
	}
	return nil
}

// Resolve stacks the configured sections top-down and returns their absolute
// rectangles. The name tier is selected before stacking: a display name
// strictly longer than the configured threshold gets the long box.
func Resolve(cfg *cardformat.Config, displayName string) *Card {
	tier := Tier{
		FontSize: cfg.NameFontSizeShort,
		MaxLines: 1,
	}
	nameHeight := cfg.NameHeightShort
	if len(displayName) > cfg.NameLengthThreshold {
		tier = Tier{
			Long:      true,
			FontSize:  cfg.NameFontSizeLong,
			Multiline: true,
			MaxLines:  cfg.NameMaxLines,
		}
		nameHeight = cfg.NameHeightLong
	}

	contentX := cfg.HorizontalPadding
	contentW := cfg.ContentWidth()

	// Stack from the top. Each section's top edge is the previous section's
	// bottom; the gap before the message section is an extra offset.
	y := cfg.TopPadding + cfg.TopMargin

	photo := Section{
		Name: SectionPhoto,
		Rect: Rect{X: contentX, Y: y, W: contentW, H: cfg.PhotoHeight},
	}
	y += cfg.PhotoHeight

	name := Section{
		Name: SectionName,
		Rect: Rect{
			X: contentX + cfg.NameMargin,
			Y: y,
			W: contentW - 2*cfg.NameMargin,
			H: nameHeight,
		},
		Fill: cardformat.SectionFill,
		Border: Border{
			Sides: cfg.NameBorderSides,
			Width: cfg.NameBorderWidth,
			Color: cfg.NameBorderColor,
		},
	}
	y += nameHeight

	qr := Section{
		Name: SectionQR,
		Rect: Rect{X: contentX, Y: y, W: contentW, H: cfg.QRHeight},
		Fill: cardformat.SectionFill,
		Border: Border{
			Sides: cfg.QRBorderSides,
			Width: cfg.QRBorderWidth,
			Color: cfg.QRBorderColor,
		},
	}
	y += cfg.QRHeight

	y += cfg.GapBeforeMessage
	message := Section{
		Name: SectionMessage,
		Rect: Rect{X: contentX, Y: y, W: contentW, H: cfg.MessageHeight},
		Fill: cardformat.SectionFill,
		Border: Border{
			Sides: cfg.MessageBorderSides,
			Width: cfg.MessageBorderWidth,
			Color: cfg.MessageBorderColor,
		},
	}
	y += cfg.MessageHeight

	card := &Card{
		PageW:    cfg.PageWidth,
		PageH:    cfg.PageHeight,
		Sections: []Section{photo, name, qr, message},
		NameTier: tier,
	}
	if !cfg.Transparent() {
		card.Background = cfg.BackgroundColor
	}

	if cfg.BottomBoxHeight > 0 {
		card.Sections = append(card.Sections, Section{
			Name: SectionBottom,
			Rect: Rect{
				X: contentX + cfg.BottomBoxMargin,
				Y: y,
				W: contentW - 2*cfg.BottomBoxMargin,
				H: cfg.BottomBoxHeight,
			},
			Fill: cardformat.SectionFill,
		})
	}

	card.QRCode = Rect{
		X: qr.Rect.X + (qr.Rect.W-cfg.QRCodeSize)/2,
		Y: qr.Rect.Y + (qr.Rect.H-cfg.QRCodeSize)/2,
		W: cfg.QRCodeSize,
		H: cfg.QRCodeSize,
	}

	return card
}

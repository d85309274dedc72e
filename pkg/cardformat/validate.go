package cardformat

import (
	"fmt"
	"image/color"
	"strconv"
)

// Validate validates a Config. Errors returned here are fatal for the whole
// run; layout degradations that only look bad are reported by Warnings.
func Validate(c *Config) error {
	if c.PageWidth <= 0 {
		return fmt.Errorf("page_width_pt must be positive, got %v", c.PageWidth)
	}
	if c.PageHeight <= 0 {
		return fmt.Errorf("page_height_pt must be positive, got %v", c.PageHeight)
	}
	if c.HorizontalPadding < 0 || c.TopPadding < 0 || c.BottomPadding < 0 {
		return fmt.Errorf("paddings must not be negative")
	}
	if 2*c.HorizontalPadding >= c.PageWidth {
		return fmt.Errorf("horizontal_padding_pt %v leaves no content width on a %vpt page", c.HorizontalPadding, c.PageWidth)
	}

	for _, dim := range []struct {
		key   string
		value float64
	}{
		{"photo_section_height_pt", c.PhotoHeight},
		{"name_box_height_pt_short", c.NameHeightShort},
		{"name_box_height_pt_long", c.NameHeightLong},
		{"name_font_size_pt_short", c.NameFontSizeShort},
		{"name_font_size_pt_long", c.NameFontSizeLong},
		{"qr_section_height_pt", c.QRHeight},
		{"qr_code_size_pt", c.QRCodeSize},
		{"message_box_height_pt", c.MessageHeight},
		{"message_font_size_pt", c.MessageFontSize},
	} {
		if dim.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", dim.key, dim.value)
		}
	}
	if c.GapBeforeMessage < 0 {
		return fmt.Errorf("gap_before_message_pt must not be negative, got %v", c.GapBeforeMessage)
	}

	if c.NameLengthThreshold <= 0 {
		return fmt.Errorf("name_length_threshold must be positive, got %d", c.NameLengthThreshold)
	}
	if c.NameMaxLines < 1 {
		return fmt.Errorf("name_max_lines must be at least 1, got %d", c.NameMaxLines)
	}

	switch c.NameOverflow {
	case "ellipsis", "truncate", "error":
	default:
		return fmt.Errorf("invalid name_overflow %q (must be ellipsis, truncate, or error)", c.NameOverflow)
	}

	if c.MessageText == "" {
		return fmt.Errorf("message_text is required")
	}
	if c.QRCodePath == "" && c.QRCodeContent == "" {
		return fmt.Errorf("either qr_code_path or qr_code_content is required")
	}

	if !c.Transparent() {
		if _, err := ParseColor(c.BackgroundColor); err != nil {
			return fmt.Errorf("background_color: %w", err)
		}
	}

	for _, border := range []struct {
		name  string
		sides []string
		width float64
		col   string
	}{
		{"name_box", c.NameBorderSides, c.NameBorderWidth, c.NameBorderColor},
		{"qr_section", c.QRBorderSides, c.QRBorderWidth, c.QRBorderColor},
		{"message_box", c.MessageBorderSides, c.MessageBorderWidth, c.MessageBorderColor},
	} {
		for _, side := range border.sides {
			if !validSide(side) {
				return fmt.Errorf("%s_border_sides: invalid side %q (must be top, bottom, left, or right)", border.name, side)
			}
		}
		if border.width < 0 {
			return fmt.Errorf("%s_border_width_pt must not be negative, got %v", border.name, border.width)
		}
		if _, err := ParseColor(border.col); err != nil {
			return fmt.Errorf("%s_border_color: %w", border.name, err)
		}
	}

	return nil
}

// Warnings reports layout degradations that render but look wrong, chiefly
// the stacked sections not fitting on the page. The tallest name tier is
// assumed since tier selection happens per request.
func Warnings(c *Config) []string {
	var warnings []string

	nameHeight := c.NameHeightShort
	if c.NameHeightLong > nameHeight {
		nameHeight = c.NameHeightLong
	}

	stacked := c.TopMargin + c.PhotoHeight + nameHeight + c.QRHeight +
		c.GapBeforeMessage + c.MessageHeight + c.BottomBoxHeight
	available := c.PageHeight - c.TopPadding - c.BottomPadding
	if stacked > available {
		warnings = append(warnings, fmt.Sprintf(
			"stacked section height %.1fpt exceeds available page height %.1fpt; sections will overflow the page",
			stacked, available))
	}

	if c.QRCodeSize > c.QRHeight {
		warnings = append(warnings, fmt.Sprintf(
			"qr_code_size_pt %.1f exceeds qr_section_height_pt %.1f; the code will overlap neighbouring sections",
			c.QRCodeSize, c.QRHeight))
	}

	return warnings
}

func validSide(side string) bool {
	for _, s := range BorderSides {
		if side == s {
			return true
		}
	}
	return false
}

// ParseColor parses a "#RRGGBB" hex string into an opaque RGBA color.
func ParseColor(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q (expected #RRGGBB)", hex)
	}

	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xFF,
	}, nil
}

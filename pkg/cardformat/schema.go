// Package cardformat defines the types for the card template configuration
package cardformat

// Config is the template configuration for a card run. All lengths are in
// points (1/72 inch); the raster backend scales them by its magnification
// factor. Key names match the original config.json documents.
type Config struct {
	// Page
	PageWidth  float64 `json:"page_width_pt"`
	PageHeight float64 `json:"page_height_pt"`

	// Paddings and margins
	HorizontalPadding float64 `json:"horizontal_padding_pt"`
	TopPadding        float64 `json:"top_padding_pt,omitempty"`
	BottomPadding     float64 `json:"bottom_padding_pt,omitempty"`
	TopMargin         float64 `json:"top_margin_pt"`
	TextPadding       float64 `json:"text_horizontal_padding_pt,omitempty"`

	// Photo section
	PhotoHeight float64 `json:"photo_section_height_pt"`

	// Name section. Two tiers: names longer than NameLengthThreshold get the
	// "long" box (taller, smaller font, multiline).
	NameHeightShort     float64  `json:"name_box_height_pt_short"`
	NameHeightLong      float64  `json:"name_box_height_pt_long"`
	NameFontSizeShort   float64  `json:"name_font_size_pt_short"`
	NameFontSizeLong    float64  `json:"name_font_size_pt_long"`
	NameLengthThreshold int      `json:"name_length_threshold"`
	NameMaxLines        int      `json:"name_max_lines,omitempty"`
	NameMargin          float64  `json:"name_box_horizontal_margin_pt,omitempty"`
	NameBorderSides     []string `json:"name_box_border_sides,omitempty"`
	NameBorderWidth     float64  `json:"name_box_border_width_pt,omitempty"`
	NameBorderColor     string   `json:"name_box_border_color,omitempty"`
	NameOverflow        string   `json:"name_overflow,omitempty"` // "ellipsis" (default), "truncate", "error"

	// QR section. Either QRCodePath points at a pre-rendered image or
	// QRCodeContent is encoded at render time.
	QRHeight      float64  `json:"qr_section_height_pt"`
	QRCodeSize    float64  `json:"qr_code_size_pt"`
	QRCodePath    string   `json:"qr_code_path,omitempty"`
	QRCodeContent string   `json:"qr_code_content,omitempty"`
	QRBorderSides []string `json:"qr_section_border_sides,omitempty"`
	QRBorderWidth float64  `json:"qr_section_border_width_pt,omitempty"`
	QRBorderColor string   `json:"qr_section_border_color,omitempty"`

	// Message section
	GapBeforeMessage   float64  `json:"gap_before_message_pt"`
	MessageHeight      float64  `json:"message_box_height_pt"`
	MessageFontSize    float64  `json:"message_font_size_pt"`
	MessageText        string   `json:"message_text"`
	MessageBorderSides []string `json:"message_box_border_sides,omitempty"`
	MessageBorderWidth float64  `json:"message_box_border_width_pt,omitempty"`
	MessageBorderColor string   `json:"message_box_border_color,omitempty"`

	// Optional trailing box
	BottomBoxHeight float64 `json:"bottom_box_height_pt,omitempty"`
	BottomBoxMargin float64 `json:"bottom_box_horizontal_margin_pt,omitempty"`

	// Page background. Hex "#RRGGBB", or "transparent"/"none" for the raster
	// backend to emit an alpha-zero page.
	BackgroundColor string `json:"background_color"`

	// Run inputs (consumed by the batch runner, not the engine)
	InputCSV        string `json:"input_csv,omitempty"`
	OutputDirectory string `json:"output_directory,omitempty"`

	// Optional TrueType font file. When empty the embedded Go Regular face
	// is used, so the engine never probes system font paths.
	FontPath string `json:"font_path,omitempty"`
}

// Defaults applied by Parse for optional keys.
const (
	DefaultTextPadding  = 10.0
	DefaultBorderWidth  = 2.0
	DefaultBorderColor  = "#000000"
	DefaultNameMaxLines = 2
	DefaultNameOverflow = "ellipsis"
)

// SectionFill is the background painted behind the name, QR, message and
// bottom boxes. The original generator hardcodes white.
const SectionFill = "#FFFFFF"

// BorderSides is the set of valid border side names.
var BorderSides = []string{"top", "bottom", "left", "right"}

// ContentWidth returns the page width minus the horizontal paddings.
func (c *Config) ContentWidth() float64 {
	return c.PageWidth - 2*c.HorizontalPadding
}

// Transparent reports whether the configured background is transparent.
func (c *Config) Transparent() bool {
	switch c.BackgroundColor {
	case "", "transparent", "none", "Transparent", "None":
		return true
	}
	return false
}

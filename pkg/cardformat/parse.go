package cardformat

import (
	"encoding/json"
	"fmt"
	"os"
)

// requiredKeys are the configuration keys a template cannot omit. Missing
// keys abort the run before any rendering starts.
var requiredKeys = []string{
	"page_width_pt",
	"page_height_pt",
	"horizontal_padding_pt",
	"top_margin_pt",
	"photo_section_height_pt",
	"name_box_height_pt_short",
	"name_box_height_pt_long",
	"name_font_size_pt_short",
	"name_font_size_pt_long",
	"name_length_threshold",
	"qr_section_height_pt",
	"qr_code_size_pt",
	"gap_before_message_pt",
	"message_box_height_pt",
	"message_font_size_pt",
	"message_text",
	"background_color",
}

// Parse parses a configuration document from a byte slice, applies defaults
// for optional keys and validates the result.
func Parse(data []byte) (*Config, error) {
	// Unmarshal into a raw map first so that absent keys can be told apart
	// from zero values.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("missing required configuration key %q", key)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg, raw)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseFile parses a configuration document from disk.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// applyDefaults fills optional keys. Border widths default on key absence,
// not on the zero value: an explicit 0 disables the stroke.
func applyDefaults(cfg *Config, raw map[string]json.RawMessage) {
	if cfg.TextPadding == 0 {
		cfg.TextPadding = DefaultTextPadding
	}
	if cfg.NameMaxLines == 0 {
		cfg.NameMaxLines = DefaultNameMaxLines
	}
	if cfg.NameOverflow == "" {
		cfg.NameOverflow = DefaultNameOverflow
	}
	if _, ok := raw["name_box_border_width_pt"]; !ok {
		cfg.NameBorderWidth = DefaultBorderWidth
	}
	if cfg.NameBorderColor == "" {
		cfg.NameBorderColor = DefaultBorderColor
	}
	if _, ok := raw["qr_section_border_width_pt"]; !ok {
		cfg.QRBorderWidth = DefaultBorderWidth
	}
	if cfg.QRBorderColor == "" {
		cfg.QRBorderColor = DefaultBorderColor
	}
	if _, ok := raw["message_box_border_width_pt"]; !ok {
		cfg.MessageBorderWidth = DefaultBorderWidth
	}
	if cfg.MessageBorderColor == "" {
		cfg.MessageBorderColor = DefaultBorderColor
	}
}

// ToJSON converts a Config back to indented JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// SaveToFile writes a Config to a file.
func (c *Config) SaveToFile(path string) error {
	data, err := c.ToJSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

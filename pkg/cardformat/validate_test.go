package cardformat

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		PageWidth:           216,
		PageHeight:          504,
		HorizontalPadding:   10,
		TopMargin:           5,
		TextPadding:         10,
		PhotoHeight:         250,
		NameHeightShort:     40,
		NameHeightLong:      60,
		NameFontSizeShort:   24,
		NameFontSizeLong:    18,
		NameLengthThreshold: 22,
		NameMaxLines:        2,
		NameOverflow:        "ellipsis",
		NameBorderWidth:     2,
		NameBorderColor:     "#000000",
		QRHeight:            90,
		QRCodeSize:          72,
		QRCodePath:          "assets/qr.png",
		QRBorderWidth:       2,
		QRBorderColor:       "#000000",
		GapBeforeMessage:    5,
		MessageHeight:       60,
		MessageFontSize:     11,
		MessageText:         "Welcome!",
		MessageBorderWidth:  2,
		MessageBorderColor:  "#000000",
		BackgroundColor:     "#8DC5FE",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}

func TestValidate_NegativeDimension(t *testing.T) {
	cfg := validConfig()
	cfg.PhotoHeight = -10

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for negative photo height")
	}
}

func TestValidate_PaddingEatsPage(t *testing.T) {
	cfg := validConfig()
	cfg.HorizontalPadding = 120 // 2*120 > 216

	if err := Validate(cfg); err == nil {
		t.Error("Expected error when padding leaves no content width")
	}
}

func TestValidate_InvalidBorderSide(t *testing.T) {
	cfg := validConfig()
	cfg.NameBorderSides = []string{"top", "diagonal"}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected error for invalid border side")
	}
	if !strings.Contains(err.Error(), "diagonal") {
		t.Errorf("Expected error to name the bad side, got: %v", err)
	}
}

func TestValidate_ValidBorderSides(t *testing.T) {
	cfg := validConfig()
	cfg.QRBorderSides = []string{"top", "bottom", "left", "right"}

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected all four sides to validate, got: %v", err)
	}
}

func TestValidate_BadColor(t *testing.T) {
	cfg := validConfig()
	cfg.BackgroundColor = "#ZZZZZZ"

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for malformed background color")
	}
}

func TestValidate_MissingQRSource(t *testing.T) {
	cfg := validConfig()
	cfg.QRCodePath = ""
	cfg.QRCodeContent = ""

	if err := Validate(cfg); err == nil {
		t.Error("Expected error when neither qr_code_path nor qr_code_content is set")
	}
}

func TestValidate_QRContentOnly(t *testing.T) {
	cfg := validConfig()
	cfg.QRCodePath = ""
	cfg.QRCodeContent = "https://example.com/welcome"

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected qr_code_content alone to be sufficient, got: %v", err)
	}
}

func TestValidate_InvalidOverflowPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.NameOverflow = "wrap"

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for unknown overflow policy")
	}
}

func TestWarnings_SectionsOverflowPage(t *testing.T) {
	cfg := validConfig()
	cfg.PageHeight = 300 // stacked sections need ~470pt

	warnings := Warnings(cfg)
	if len(warnings) == 0 {
		t.Fatal("Expected overflow warning")
	}
	if !strings.Contains(warnings[0], "exceeds") {
		t.Errorf("Unexpected warning text: %s", warnings[0])
	}
}

func TestWarnings_Fits(t *testing.T) {
	cfg := validConfig()

	if warnings := Warnings(cfg); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got: %v", warnings)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#8DC5FE")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if c.R != 0x8D || c.G != 0xC5 || c.B != 0xFE || c.A != 0xFF {
		t.Errorf("Unexpected color: %+v", c)
	}

	if _, err := ParseColor("8DC5FE"); err == nil {
		t.Error("Expected error for missing #")
	}
	if _, err := ParseColor("#8DC5"); err == nil {
		t.Error("Expected error for short hex")
	}
}

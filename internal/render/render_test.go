package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestRenderPNG_Dimensions(t *testing.T) {
	cfg := testConfig()
	data, err := RenderPNG(cfg, testRequest(), testFonts(t), 4)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a decodable PNG: %v", err)
	}

	wantW, wantH := 216*4, 504*4
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Errorf("Expected %dx%d pixels, got %dx%d",
			wantW, wantH, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRenderPNG_Deterministic(t *testing.T) {
	cfg := testConfig()
	fonts := testFonts(t)

	first, err := RenderPNG(cfg, testRequest(), fonts, 2)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	second, err := RenderPNG(cfg, testRequest(), fonts, 2)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Expected byte-identical output for identical inputs")
	}
}

func TestRenderPDF_ProducesDocument(t *testing.T) {
	data, err := RenderPDF(testConfig(), testRequest(), testFonts(t))
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected PDF header in output")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render("svg", testConfig(), testRequest(), testFonts(t), 4)
	if err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestImageToPDF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 240))
	data, err := ImageToPDF(img, 216, 504, true)
	if err != nil {
		t.Fatalf("ImageToPDF failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected PDF header in output")
	}
}

func TestNewRasterPainter_RejectsBadScale(t *testing.T) {
	if _, err := NewRasterPainter(100, 100, 0, testFonts(t)); err == nil {
		t.Error("Expected error for zero magnification factor")
	}
}

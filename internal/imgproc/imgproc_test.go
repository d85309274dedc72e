package imgproc

import (
	"image"
	"image/color"
	"testing"
)

var (
	sky = color.RGBA{R: 0x8D, G: 0xC5, B: 0xFE, A: 255}
	red = color.RGBA{R: 255, A: 255}
)

// skyWithDot is a 5x5 sky-colored image with one black pixel in the middle.
func skyWithDot() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: sky.R, G: sky.G, B: sky.B, A: 255})
		}
	}
	img.SetNRGBA(2, 2, color.NRGBA{A: 255})
	return img
}

func TestRemoveBackground_MakesMatchingPixelsTransparent(t *testing.T) {
	out, counts, err := RemoveBackground(skyWithDot(), []color.RGBA{sky}, 30)
	if err != nil {
		t.Fatalf("RemoveBackground failed: %v", err)
	}

	if counts[0].Pixels != 24 {
		t.Errorf("Expected 24 removed pixels, got %d", counts[0].Pixels)
	}
	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("Expected background pixel transparent, got alpha %d", a)
	}
	if a := out.NRGBAAt(2, 2).A; a != 255 {
		t.Errorf("Expected subject pixel kept opaque, got alpha %d", a)
	}
}

func TestRemoveBackground_ToleranceWidensMatch(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	// 40 units away from sky on the red axis.
	img.SetNRGBA(0, 0, color.NRGBA{R: sky.R + 40, G: sky.G, B: sky.B, A: 255})

	out, _, err := RemoveBackground(img, []color.RGBA{sky}, 30)
	if err != nil {
		t.Fatalf("RemoveBackground failed: %v", err)
	}
	if out.NRGBAAt(0, 0).A != 255 {
		t.Error("Pixel outside tolerance 30 must stay opaque")
	}

	out, _, err = RemoveBackground(img, []color.RGBA{sky}, 50)
	if err != nil {
		t.Fatalf("RemoveBackground failed: %v", err)
	}
	if out.NRGBAAt(0, 0).A != 0 {
		t.Error("Pixel inside tolerance 50 must become transparent")
	}
}

func TestRemoveBackground_MultipleColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: sky.R, G: sky.G, B: sky.B, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 200, A: 255})

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	out, counts, err := RemoveBackground(img, []color.RGBA{sky, white}, 10)
	if err != nil {
		t.Fatalf("RemoveBackground failed: %v", err)
	}

	if out.NRGBAAt(0, 0).A != 0 || out.NRGBAAt(1, 0).A != 0 {
		t.Error("Expected both background colors removed")
	}
	if out.NRGBAAt(2, 0).A != 255 {
		t.Error("Expected unrelated pixel kept")
	}
	if counts[0].Pixels != 1 || counts[1].Pixels != 1 {
		t.Errorf("Expected one pixel per color, got %d and %d", counts[0].Pixels, counts[1].Pixels)
	}
}

func TestRemoveBackground_Validation(t *testing.T) {
	if _, _, err := RemoveBackground(skyWithDot(), nil, 30); err == nil {
		t.Error("Expected error for empty color list")
	}
	if _, _, err := RemoveBackground(skyWithDot(), []color.RGBA{sky}, 300); err == nil {
		t.Error("Expected error for tolerance out of range")
	}
}

func TestOutline_SurroundsSubject(t *testing.T) {
	// Single opaque pixel in the middle of a transparent 5x5 canvas.
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	img.SetNRGBA(2, 2, color.NRGBA{A: 255})

	out, painted, err := Outline(img, red, 1)
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}

	// One dilation of a single pixel adds its 8 neighbours.
	if painted != 8 {
		t.Errorf("Expected 8 border pixels, got %d", painted)
	}
	got := out.NRGBAAt(1, 2)
	if got.R != 255 || got.A != 255 {
		t.Errorf("Expected red border pixel at (1,2), got %v", got)
	}
	if out.NRGBAAt(2, 2).R != 0 {
		t.Error("Subject pixel must keep its color")
	}
	if out.NRGBAAt(0, 0).A != 0 {
		t.Error("Pixels beyond the border must stay transparent")
	}
}

func TestOutline_WidthGrowsBorder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 7, 7))
	img.SetNRGBA(3, 3, color.NRGBA{A: 255})

	_, one, err := Outline(img, red, 1)
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	_, two, err := Outline(img, red, 2)
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}

	if two <= one {
		t.Errorf("Expected wider border to paint more pixels, got %d then %d", one, two)
	}
}

func TestOutline_AllTransparentUnchanged(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	out, painted, err := Outline(img, red, 3)
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	if painted != 0 {
		t.Errorf("Expected no border pixels on an empty image, got %d", painted)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if out.NRGBAAt(x, y).A != 0 {
				t.Fatalf("Expected image unchanged, pixel (%d,%d) is opaque", x, y)
			}
		}
	}
}

func TestOutline_WidthValidated(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if _, _, err := Outline(img, red, 0); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, _, err := Outline(img, red, 101); err == nil {
		t.Error("Expected error for width above 100")
	}
}

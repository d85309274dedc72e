package imgproc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Outline draws a colored border that follows the subject silhouette of a
// transparent image. The alpha mask is dilated width times with a 3x3
// structuring element; pixels gained by the dilation get the border color at
// full opacity. An image with no opaque pixels comes back unchanged.
// Returns the number of border pixels painted.
func Outline(img image.Image, border color.RGBA, width int) (*image.NRGBA, int, error) {
	if width < 1 || width > 100 {
		return nil, 0, fmt.Errorf("border width must be between 1 and 100 pixels, got %d", width)
	}

	out := imaging.Clone(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()

	subject := make([]bool, w*h)
	any := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if out.Pix[y*out.Stride+x*4+3] > 0 {
				subject[y*w+x] = true
				any = true
			}
		}
	}
	if !any {
		return out, 0, nil
	}

	dilated := make([]bool, w*h)
	copy(dilated, subject)
	for i := 0; i < width; i++ {
		dilated = dilate(dilated, w, h)
	}

	painted := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if dilated[y*w+x] && !subject[y*w+x] {
				off := y*out.Stride + x*4
				out.Pix[off] = border.R
				out.Pix[off+1] = border.G
				out.Pix[off+2] = border.B
				out.Pix[off+3] = 255
				painted++
			}
		}
	}

	return out, painted, nil
}

// dilate grows the mask by one pixel in all eight directions.
func dilate(mask []bool, w, h int) []bool {
	out := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						out[ny*w+nx] = true
					}
				}
			}
		}
	}
	return out
}

// Package imgproc prepares photo assets: cutting subjects out of flat-color
// backgrounds and drawing silhouette outlines on the resulting alpha masks.
package imgproc

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Defaults matching the original asset pipeline.
const (
	DefaultTolerance    = 30
	DefaultOutlineWidth = 2
)

// ColorCount reports how many pixels matched one background color.
type ColorCount struct {
	Color  color.RGBA
	Pixels int
}

// RemoveBackground makes every pixel transparent whose color lies within
// tolerance (Euclidean RGB distance) of any of the given background colors.
// The union of all color masks is removed in one pass.
func RemoveBackground(img image.Image, colors []color.RGBA, tolerance int) (*image.NRGBA, []ColorCount, error) {
	if len(colors) == 0 {
		return nil, nil, fmt.Errorf("no background colors given")
	}
	if tolerance < 0 || tolerance > 255 {
		return nil, nil, fmt.Errorf("tolerance must be between 0 and 255, got %d", tolerance)
	}

	out := imaging.Clone(img)
	counts := make([]ColorCount, len(colors))
	for i, c := range colors {
		counts[i].Color = c
	}

	tol := float64(tolerance)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*out.Stride + x*4
			r := float64(out.Pix[off])
			g := float64(out.Pix[off+1])
			b := float64(out.Pix[off+2])

			matched := false
			for i, c := range colors {
				d := math.Sqrt(
					(r-float64(c.R))*(r-float64(c.R)) +
						(g-float64(c.G))*(g-float64(c.G)) +
						(b-float64(c.B))*(b-float64(c.B)))
				if d <= tol {
					counts[i].Pixels++
					matched = true
				}
			}
			if matched {
				out.Pix[off+3] = 0
			}
		}
	}

	return out, counts, nil
}

// Package imagefit computes where an image lands inside a box while keeping
// its aspect ratio. Fill covers the box and lets the longer dimension spill
// past it; Fit letterboxes the image inside the box. Both return geometry in
// the canonical layout space, leaving decoding and drawing to the backends.
package imagefit

import (
	"fmt"

	"github.com/cardforge/card-engine/internal/layout"
)

// Placement is the drawn rectangle for an image in canonical layout space.
// W and H carry the exact aspect ratio of the source image.
type Placement struct {
	X, Y, W, H float64
	Scale      float64
}

// Fill scales the image so it covers the box completely. The scale is the
// larger of the two axis ratios, so one dimension matches the box exactly and
// the other can overflow; callers clip at the box. The result is horizontally
// centered and anchored to the top of the box.
func Fill(box layout.Rect, imgW, imgH int) (Placement, error) {
	if imgW <= 0 || imgH <= 0 {
		return Placement{}, fmt.Errorf("image has degenerate dimensions %dx%d", imgW, imgH)
	}

	scaleW := box.W / float64(imgW)
	scaleH := box.H / float64(imgH)
	scale := scaleW
	if scaleH > scale {
		scale = scaleH
	}

	w := float64(imgW) * scale
	h := float64(imgH) * scale

	return Placement{
		X:     box.X + (box.W-w)/2,
		Y:     box.Y,
		W:     w,
		H:     h,
		Scale: scale,
	}, nil
}

// Fit scales the image so it sits entirely inside the box. The scale is the
// smaller of the two axis ratios. With centered true the image is centered
// both ways; otherwise it is anchored to the bottom-left corner of the box.
func Fit(box layout.Rect, imgW, imgH int, centered bool) (Placement, error) {
	if imgW <= 0 || imgH <= 0 {
		return Placement{}, fmt.Errorf("image has degenerate dimensions %dx%d", imgW, imgH)
	}

	scaleW := box.W / float64(imgW)
	scaleH := box.H / float64(imgH)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	w := float64(imgW) * scale
	h := float64(imgH) * scale

	p := Placement{W: w, H: h, Scale: scale}
	if centered {
		p.X = box.X + (box.W-w)/2
		p.Y = box.Y + (box.H-h)/2
	} else {
		p.X = box.X
		p.Y = box.Y + box.H - h
	}

	return p, nil
}

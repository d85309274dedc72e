package textfit

import (
	"math"
)

// Metrics measures text for a single font face at arbitrary sizes. Widths
// and ascents are in the same length unit as the layout (points).
//
// Implementations must scale linearly with size, which holds for any single
// TrueType face: width(s, k*size) == k*width(s, size) within rounding.
type Metrics interface {
	TextWidth(text string, size float64) float64
	Ascent(size float64) float64
}

// Line pitch factors. The name block uses 1.2, the message block 1.25,
// matching the original card layouts.
const (
	NamePitchFactor    = 1.2
	MessagePitchFactor = 1.25
)

// Line is a positioned line of text in canonical layout space. X is the left
// edge of the rendered line; Baseline is the y coordinate backends draw at.
type Line struct {
	Text     string
	X        float64
	Baseline float64
}

// Block is fitted text for one box: the lines to paint and the font size
// that was actually used after any shrinking.
type Block struct {
	Lines    []Line
	FontSize float64
}

// ShrinkToWidth returns a font size at which text fits into maxWidth. If the
// text already fits, size comes back unchanged; otherwise the size is scaled
// down by the width ratio and floored to an integer. The result can fall
// below legibility for pathological input; no minimum is enforced.
func ShrinkToWidth(text string, size, maxWidth float64, m Metrics) float64 {
	width := m.TextWidth(text, size)
	if width <= maxWidth {
		return size
	}

	return math.Floor(size * maxWidth / width)
}

// SingleLine fits one line of text into the box, shrinking the font when the
// text is wider than the box minus its horizontal text padding, then centers
// it both ways. Vertical centering treats the line as an em box of height
// equal to the font size.
func SingleLine(text string, x, y, w, h, size, padding float64, m Metrics) Block {
	maxWidth := w - 2*padding
	size = ShrinkToWidth(text, size, maxWidth, m)

	width := m.TextWidth(text, size)
	top := y + (h-size)/2

	return Block{
		FontSize: size,
		Lines: []Line{{
			Text:     text,
			X:        x + (w-width)/2,
			Baseline: top + m.Ascent(size),
		}},
	}
}

// BlockLines stacks pre-broken lines at a pitch of size*pitchFactor,
// vertically centers the block in the box and centers each line on its own.
// A single line degenerates to the block being that one centered line.
func BlockLines(lines []string, x, y, w, h, size, pitchFactor float64, m Metrics) Block {
	pitch := size * pitchFactor
	total := float64(len(lines)) * pitch
	startY := y + (h-total)/2

	block := Block{FontSize: size, Lines: make([]Line, 0, len(lines))}
	for i, text := range lines {
		width := m.TextWidth(text, size)
		top := startY + float64(i)*pitch
		block.Lines = append(block.Lines, Line{
			Text:     text,
			X:        x + (w-width)/2,
			Baseline: top + m.Ascent(size),
		})
	}

	return block
}

package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/cardforge/card-engine/internal/textfit"
)

// FontSource is a parsed TrueType font shared by both backends and the text
// fitter. It is immutable after load and safe for concurrent use; faces are
// created per size and cached.
type FontSource struct {
	data []byte
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// LoadFont parses the font file at path. An empty path loads the embedded Go
// Regular face, so the engine never probes system font directories.
func LoadFont(path string) (*FontSource, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &FontSource{
		data:  data,
		font:  f,
		faces: map[float64]font.Face{},
	}, nil
}

// Bytes returns the raw TTF bytes, for backends that load the font themselves.
func (f *FontSource) Bytes() []byte { return f.data }

// Face returns a rendering face at the given size in points (72 DPI, so one
// point is one pixel before any magnification).
func (f *FontSource) Face(size float64) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(f.font, &truetype.Options{Size: size, DPI: 72})
	f.faces[size] = face
	return face
}

// Metrics returns a text measurer backed by this font. Both backends fit text
// through the same measurer, so their layout decisions cannot drift.
func (f *FontSource) Metrics() textfit.Metrics { return fontMetrics{f} }

type fontMetrics struct {
	src *FontSource
}

func (m fontMetrics) TextWidth(text string, size float64) float64 {
	return float64(font.MeasureString(m.src.Face(size), text)) / 64
}

func (m fontMetrics) Ascent(size float64) float64 {
	return float64(m.src.Face(size).Metrics().Ascent) / 64
}

package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cardforge/card-engine/internal/dataset"
	"github.com/cardforge/card-engine/internal/render"
	"github.com/cardforge/card-engine/pkg/cardformat"
)

// qrImageSize is the pixel edge of self-generated QR codes. Both backends
// rescale to the configured point size, so it only bounds module sharpness.
const qrImageSize = 512

// Options controls one batch run.
type Options struct {
	Format    string // "pdf" or "png"
	Scale     int    // raster magnification, ignored for pdf
	Workers   int
	BaseDir   string // resolves relative photo and qr paths
	OutputDir string
}

// Event reports the outcome of one record. Err is nil on success.
type Event struct {
	Row    int
	Total  int
	Name   string
	Output string
	Err    error
}

// Summary is the run report. The process exit status should reflect
// AllSucceeded.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
}

// AllSucceeded reports whether every record rendered.
func (s Summary) AllSucceeded() bool { return s.Failed == 0 }

// Runner renders cards for input records. The configuration, font and QR
// image are loaded once and shared read-only by all workers.
type Runner struct {
	cfg   *cardformat.Config
	fonts *render.FontSource
	qr    image.Image
	opts  Options
}

// NewRunner prepares the shared run state. All failures here are
// ConfigErrors: the run must not start half-configured.
func NewRunner(cfg *cardformat.Config, opts Options) (*Runner, error) {
	if opts.Format != "pdf" && opts.Format != "png" {
		return nil, &ConfigError{Err: fmt.Errorf("unknown output format %q", opts.Format)}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Scale < 1 {
		opts.Scale = render.DefaultScale
	}

	fonts, err := render.LoadFont(resolvePath(opts.BaseDir, cfg.FontPath))
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	qr, err := LoadQR(cfg, opts.BaseDir)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	return &Runner{cfg: cfg, fonts: fonts, qr: qr, opts: opts}, nil
}

// LoadQR decodes the configured QR image, or encodes one from
// qr_code_content when no pre-rendered file is given. The result is shared
// read-only across all renders of a run.
func LoadQR(cfg *cardformat.Config, baseDir string) (image.Image, error) {
	if cfg.QRCodePath != "" {
		img, err := imaging.Open(resolvePath(baseDir, cfg.QRCodePath))
		if err != nil {
			return nil, fmt.Errorf("failed to load qr code image: %w", err)
		}
		return img, nil
	}

	code, err := qrcode.New(cfg.QRCodeContent, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr content: %w", err)
	}
	return code.Image(qrImageSize), nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Run renders every record, fanning out over the worker pool. Events, when
// the channel is non-nil, are sent as records finish, in completion order.
// Cancelling the context stops dispatching; records never started count as
// failed.
func (r *Runner) Run(ctx context.Context, records []dataset.Record, events chan<- Event) Summary {
	summary := Summary{RunID: uuid.New().String(), Total: len(records)}

	jobs := make(chan dataset.Record)
	results := make(chan Event)

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				results <- r.renderOne(rec, len(records))
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range records {
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for ev := range results {
		done++
		if ev.Err == nil {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if events != nil {
			events <- ev
		}
	}

	// Records the cancelled dispatcher never handed out.
	summary.Failed += summary.Total - done
	return summary
}

// renderOne produces a single card file. The card is rendered into memory
// first and written in one shot, so a failure never leaves a partial file.
func (r *Runner) renderOne(rec dataset.Record, total int) Event {
	ev := Event{Row: rec.Row, Total: total, Name: rec.Name}

	if !rec.Valid() {
		ev.Err = &RequestError{Row: rec.Row, Name: rec.Name, Err: fmt.Errorf("missing name or image field")}
		return ev
	}

	photo, err := imaging.Open(resolvePath(r.opts.BaseDir, rec.Image))
	if err != nil {
		ev.Err = &RequestError{Row: rec.Row, Name: rec.Name, Err: fmt.Errorf("failed to load photo: %w", err)}
		return ev
	}

	req := render.Request{Name: rec.Name, Photo: photo, QR: r.qr}
	data, err := render.Render(r.opts.Format, r.cfg, req, r.fonts, r.opts.Scale)
	if err != nil {
		ev.Err = &RenderError{Name: rec.Name, Stage: "paint", Err: err}
		return ev
	}

	out := filepath.Join(r.opts.OutputDir, dataset.SanitizeFilename(rec.Name)+"."+r.opts.Format)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		ev.Err = &RenderError{Name: rec.Name, Stage: "write", Err: err}
		return ev
	}

	ev.Output = out
	return ev
}

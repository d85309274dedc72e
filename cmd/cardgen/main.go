package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/cardforge/card-engine/internal/batch"
	"github.com/cardforge/card-engine/internal/dataset"
	"github.com/cardforge/card-engine/internal/imgproc"
	"github.com/cardforge/card-engine/internal/render"
	"github.com/cardforge/card-engine/internal/tui"
	"github.com/cardforge/card-engine/pkg/cardformat"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	args := flag.Args()
	var err error
	switch args[0] {
	case "generate":
		err = runGenerate(args[1:])
	case "preview":
		err = runPreview(args[1:])
	case "convert":
		err = runConvert(args[1:])
	case "cutout":
		err = runCutout(args[1:])
	case "outline":
		err = runOutline(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Card Generator

Usage:
  cardgen <command> [flags]

Commands:
  generate   Render cards for every row of the input CSV
  preview    Render a single card without a CSV
  convert    Wrap PNG images in single-page PDFs
  cutout     Remove flat background colors, producing transparent PNGs
  outline    Draw a colored border around the subject silhouette

Run 'cardgen <command> -h' for command flags.
`)
}

func loadConfig(path string) (*cardformat.Config, string, error) {
	cfg, err := cardformat.ParseFile(path)
	if err != nil {
		return nil, "", err
	}
	for _, w := range cardformat.Warnings(cfg) {
		log.Printf("Warning: %s", w)
	}
	baseDir := filepath.Dir(path)
	return cfg, baseDir, nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "Configuration file")
	format := fs.String("format", "pdf", "Output format: pdf or png")
	scale := fs.Int("scale", render.DefaultScale, "Raster magnification factor (png only)")
	workers := fs.Int("workers", 4, "Concurrent renders")
	useTUI := fs.Bool("tui", false, "Show progress in a terminal UI")
	fs.Parse(args)

	cfg, baseDir, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.InputCSV == "" || cfg.OutputDirectory == "" {
		return fmt.Errorf("configuration must set input_csv and output_directory")
	}

	records, err := dataset.ReadFile(filepath.Join(baseDir, cfg.InputCSV))
	if err != nil {
		return err
	}

	outputDir := filepath.Join(baseDir, cfg.OutputDirectory)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runner, err := batch.NewRunner(cfg, batch.Options{
		Format:    *format,
		Scale:     *scale,
		Workers:   *workers,
		BaseDir:   baseDir,
		OutputDir: outputDir,
	})
	if err != nil {
		return err
	}

	var summary batch.Summary
	if *useTUI {
		events := make(chan batch.Event)
		done := make(chan batch.Summary, 1)
		go func() {
			done <- runner.Run(context.Background(), records, events)
			close(events)
		}()
		result, err := tui.Run(len(records), events, done)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("run cancelled")
		}
		summary = *result
	} else {
		fmt.Printf("Found %d entries to process.\n\n", len(records))
		events := make(chan batch.Event)
		done := make(chan batch.Summary, 1)
		go func() {
			done <- runner.Run(context.Background(), records, events)
			close(events)
		}()
		for ev := range events {
			if ev.Err != nil {
				fmt.Printf("[%d/%d] FAILED: %v\n", ev.Row, ev.Total, ev.Err)
			} else {
				fmt.Printf("[%d/%d] %s -> %s\n", ev.Row, ev.Total, ev.Name, ev.Output)
			}
		}
		summary = <-done
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("GENERATION COMPLETE")
	fmt.Printf("  Total: %d\n", summary.Total)
	fmt.Printf("  Success: %d\n", summary.Succeeded)
	fmt.Printf("  Failed: %d\n", summary.Failed)
	fmt.Printf("  Output directory: %s\n", outputDir)
	fmt.Println(strings.Repeat("=", 60))

	if !summary.AllSucceeded() {
		os.Exit(1)
	}
	return nil
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "Configuration file")
	name := fs.String("name", "", "Display name")
	photoPath := fs.String("photo", "", "Photo image file")
	format := fs.String("format", "pdf", "Output format: pdf or png")
	scale := fs.Int("scale", render.DefaultScale, "Raster magnification factor (png only)")
	out := fs.String("out", "", "Output file (default: <name>.<format>)")
	fs.Parse(args)

	if *name == "" || *photoPath == "" {
		return fmt.Errorf("-name and -photo are required")
	}

	cfg, baseDir, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	fonts, err := render.LoadFont(resolvePath(baseDir, cfg.FontPath))
	if err != nil {
		return err
	}
	photo, err := imaging.Open(*photoPath)
	if err != nil {
		return fmt.Errorf("failed to load photo: %w", err)
	}
	qr, err := batch.LoadQR(cfg, baseDir)
	if err != nil {
		return err
	}

	data, err := render.Render(*format, cfg, render.Request{Name: *name, Photo: photo, QR: qr}, fonts, *scale)
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = dataset.SanitizeFilename(*name) + "." + *format
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Wrote %s\n", target)
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	pageW := fs.Float64("page-width", 216, "Page width in points")
	pageH := fs.Float64("page-height", 504, "Page height in points")
	center := fs.Bool("center", true, "Center the image on the page")
	outDir := fs.String("out", "output", "Output directory")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("convert needs at least one PNG file")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	failed := 0
	for _, path := range fs.Args() {
		img, err := imaging.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load %s: %v\n", path, err)
			failed++
			continue
		}

		data, err := render.ImageToPDF(img, *pageW, *pageH, *center)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to convert %s: %v\n", path, err)
			failed++
			continue
		}

		target := filepath.Join(*outDir, stem(path)+".pdf")
		if err := os.WriteFile(target, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write %s: %v\n", target, err)
			failed++
			continue
		}
		fmt.Printf("Converted %s -> %s\n", path, target)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, fs.NArg())
	}
	return nil
}

// colorList collects repeatable -color flags.
type colorList []color.RGBA

func (c *colorList) String() string { return fmt.Sprintf("%d colors", len(*c)) }

func (c *colorList) Set(value string) error {
	parsed, err := cardformat.ParseColor(value)
	if err != nil {
		return err
	}
	*c = append(*c, parsed)
	return nil
}

func runCutout(args []string) error {
	fs := flag.NewFlagSet("cutout", flag.ExitOnError)
	var colors colorList
	fs.Var(&colors, "color", "Background color to remove, repeatable (hex)")
	tolerance := fs.Int("tolerance", imgproc.DefaultTolerance, "Color matching tolerance 0-255")
	out := fs.String("out", "", "Output file (default: <stem>_transparent.png)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("cutout needs exactly one input image")
	}
	if len(colors) == 0 {
		colors = colorList{{R: 0x8D, G: 0xC5, B: 0xFE, A: 255}}
	}

	path := fs.Arg(0)
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	result, counts, err := imgproc.RemoveBackground(img, colors, *tolerance)
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = stem(path) + "_transparent.png"
	}
	if err := imaging.Save(result, target); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	fmt.Printf("Processed %s\n", path)
	for _, c := range counts {
		fmt.Printf("  removed #%02X%02X%02X: %d pixels\n", c.Color.R, c.Color.G, c.Color.B, c.Pixels)
	}
	fmt.Printf("  saved to %s\n", target)
	return nil
}

func runOutline(args []string) error {
	fs := flag.NewFlagSet("outline", flag.ExitOnError)
	borderColor := fs.String("color", "#FF0000", "Border color (hex)")
	width := fs.Int("width", imgproc.DefaultOutlineWidth, "Border width in pixels (1-100)")
	out := fs.String("out", "", "Output file (default: <stem>_bordered.png)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("outline needs exactly one input PNG")
	}

	col, err := cardformat.ParseColor(*borderColor)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	result, painted, err := imgproc.Outline(img, col, *width)
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = stem(path) + "_bordered.png"
	}
	if err := imaging.Save(result, target); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	fmt.Printf("Processed %s\n", path)
	fmt.Printf("  border: %s (%dpx), %d pixels painted\n", *borderColor, *width, painted)
	fmt.Printf("  saved to %s\n", target)
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Package dataset reads the tabular card input: one CSV row per card, with
// the person's display name and the path of their photo.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Record is one row of the input table.
type Record struct {
	Name  string
	Image string
	Row   int // 1-based data row number, for error reporting
}

// Valid reports whether the record carries both required fields.
func (r Record) Valid() bool {
	return r.Name != "" && r.Image != ""
}

// Read parses CSV rows from r. The first row must be a header containing
// "name" and "image" columns; extra columns are ignored. Field values are
// trimmed. Rows with missing required fields are still returned so the caller
// can count and report them.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	nameCol, imageCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameCol = i
		case "image":
			imageCol = i
		}
	}
	if nameCol < 0 || imageCol < 0 {
		return nil, fmt.Errorf("csv header must contain name and image columns, got %v", header)
	}

	var records []Record
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", row+1, err)
		}
		row++

		rec := Record{Row: row}
		if nameCol < len(fields) {
			rec.Name = strings.TrimSpace(fields[nameCol])
		}
		if imageCol < len(fields) {
			rec.Image = strings.TrimSpace(fields[imageCol])
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadFile reads records from the CSV file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// SanitizeFilename turns a display name into a safe output file stem:
// anything but letters, digits, spaces, dashes and underscores becomes an
// underscore, spaces become underscores, and the result is lowercased.
// Output filenames are deterministic, so re-running a batch overwrites
// rather than duplicates.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ':
			b.WriteRune('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Package batch runs a card generation batch: one render per input record,
// fanned out over a worker pool, with per-record failures counted rather
// than aborting the run.
package batch

import "fmt"

// ConfigError is fatal: nothing renders when the run setup is broken.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("configuration error: %v", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// RequestError marks one input record as unusable (missing field, unreadable
// photo). The record is skipped and the run continues.
type RequestError struct {
	Row  int
	Name string
	Err  error
}

func (e *RequestError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Name, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// RenderError marks a failure while painting or writing one card. The output
// file is not written, so no half-rendered artifact survives.
type RenderError struct {
	Name  string
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s (%s): %v", e.Name, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

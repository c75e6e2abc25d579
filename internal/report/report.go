// Package report renders checked documents for people and for tools.
package report

import (
	"fmt"
	"io"
	"time"

	"prosecheck/internal/checker"
)

// Format selects a Renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// FileReport is the outcome of checking one document.
type FileReport struct {
	Path     string
	Problems []checker.Problem
	Metadata checker.Metadata
}

// Summary totals a whole run.
type Summary struct {
	Files      int
	Paragraphs int
	Problems   int
	Duration   time.Duration
}

// Add accumulates one file into the summary.
func (s *Summary) Add(r FileReport) {
	s.Files++
	s.Paragraphs += r.Metadata.ParagraphCount
	s.Problems += len(r.Problems)
	s.Duration += r.Metadata.RequestDuration
}

// Renderer writes file reports as they complete and a closing summary.
type Renderer interface {
	Render(r FileReport) error
	Finish(s Summary) error
}

// New returns the renderer for format writing to w. Color only affects text output.
func New(format Format, w io.Writer, color bool) (Renderer, error) {
	switch format {
	case FormatText, "":
		return NewTextRenderer(w, color), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

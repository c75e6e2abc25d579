package report

import (
	"encoding/json"
	"io"

	"prosecheck/internal/checker"
)

// ProblemJSON is a problem with its stable identifier.
type ProblemJSON struct {
	ID string `json:"id"`
	checker.Problem
}

// FileJSON is one checked document.
type FileJSON struct {
	Path     string           `json:"path"`
	Problems []ProblemJSON    `json:"problems"`
	Metadata checker.Metadata `json:"metadata"`
}

// SummaryJSON totals the run.
type SummaryJSON struct {
	Files      int     `json:"files"`
	Paragraphs int     `json:"paragraphs"`
	Problems   int     `json:"problems"`
	Seconds    float64 `json:"seconds"`
}

// Output is the root of the JSON document.
type Output struct {
	Files   []FileJSON  `json:"files"`
	Summary SummaryJSON `json:"summary"`
}

// JSONRenderer collects every file and writes a single document on Finish.
type JSONRenderer struct {
	w     io.Writer
	files []FileJSON
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w, files: []FileJSON{}}
}

func (r *JSONRenderer) Render(report FileReport) error {
	problems := make([]ProblemJSON, 0, len(report.Problems))
	for _, p := range report.Problems {
		if p.Replacements == nil {
			p.Replacements = []string{}
		}
		problems = append(problems, ProblemJSON{ID: Fingerprint(report.Path, p), Problem: p})
	}
	r.files = append(r.files, FileJSON{Path: report.Path, Problems: problems, Metadata: report.Metadata})
	return nil
}

func (r *JSONRenderer) Finish(s Summary) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(Output{
		Files: r.files,
		Summary: SummaryJSON{
			Files:      s.Files,
			Paragraphs: s.Paragraphs,
			Problems:   s.Problems,
			Seconds:    s.Duration.Seconds(),
		},
	})
}

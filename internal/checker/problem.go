package checker

import (
	"cmp"
	"fmt"
	"slices"
)

// Position is a 1-based line and column in the checked document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.Line, o.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, o.Column)
}

// Range is an ordered pair of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) Compare(o Range) int {
	if c := r.Start.Compare(o.Start); c != 0 {
		return c
	}
	return r.End.Compare(o.End)
}

// Touches reports whether any line of the range is in lines.
func (r Range) Touches(lines map[int]bool) bool {
	for l := r.Start.Line; l <= r.End.Line; l++ {
		if lines[l] {
			return true
		}
	}
	return false
}

func (r Range) String() string {
	if r.Start.Line == r.End.Line {
		return fmt.Sprintf("line %d, column %d-%d", r.Start.Line, r.Start.Column, r.End.Column)
	}
	return fmt.Sprintf("lines %d-%d, column %d-%d", r.Start.Line, r.End.Line, r.Start.Column, r.End.Column)
}

// Problem is one issue reported by the checking service, located in the document.
type Problem struct {
	Range        Range    `json:"range"`
	MatchString  string   `json:"match"`
	Context      string   `json:"context"`
	ShortMessage string   `json:"short_message"`
	Message      string   `json:"message"`
	Replacements []string `json:"replacements"`
	RuleCategory string   `json:"rule_category"`
	RuleID       string   `json:"rule_id"`
}

// Compare orders problems by range, then by the remaining fields in
// declaration order.
func (p Problem) Compare(o Problem) int {
	if c := p.Range.Compare(o.Range); c != 0 {
		return c
	}
	if c := cmp.Compare(p.MatchString, o.MatchString); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Context, o.Context); c != 0 {
		return c
	}
	if c := cmp.Compare(p.ShortMessage, o.ShortMessage); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Message, o.Message); c != 0 {
		return c
	}
	if c := slices.Compare(p.Replacements, o.Replacements); c != 0 {
		return c
	}
	if c := cmp.Compare(p.RuleCategory, o.RuleCategory); c != 0 {
		return c
	}
	return cmp.Compare(p.RuleID, o.RuleID)
}

// SortProblems sorts problems into document order.
func SortProblems(problems []Problem) {
	slices.SortFunc(problems, Problem.Compare)
}

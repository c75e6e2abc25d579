package checker

import (
	"errors"
	"fmt"
	"strings"

	"prosecheck/internal/languagetool"
	"prosecheck/internal/prose"
	"prosecheck/internal/syntax"
)

var (
	// ErrNoContribution means no fragment produced the matched text.
	ErrNoContribution = errors.New("no fragment contains the match")
	// ErrUnmappable means the match could not be translated to a line and column.
	ErrUnmappable = errors.New("match cannot be mapped to the document")
)

// Reconcile locates a match reported against a paragraph's text in the
// document. matchString is the matched slice of the paragraph text.
func Reconcile(src *syntax.Source, m languagetool.Match, matchString string, contributions []prose.Contribution) (Problem, error) {
	var owner *prose.Contribution
	for i := range contributions {
		if contributions[i].Contains(m.Offset) {
			owner = &contributions[i]
			break
		}
	}
	if owner == nil {
		return Problem{}, fmt.Errorf("%w: offset %d", ErrNoContribution, m.Offset)
	}

	fragmentStart, _, ok := src.Range(owner.Span)
	if !ok {
		return Problem{}, fmt.Errorf("%w: fragment span %s does not resolve", ErrUnmappable, owner.Span)
	}

	// A match may begin part way into its fragment.
	docStart := fragmentStart + (m.Offset - owner.Offset)
	docEnd := docStart + m.Length

	start, err := position(src, docStart)
	if err != nil {
		return Problem{}, err
	}
	end, err := position(src, docEnd)
	if err != nil {
		return Problem{}, err
	}

	return Problem{
		Range:        Range{Start: start, End: end},
		MatchString:  matchString,
		Context:      strings.ReplaceAll(m.Context, "\r", ""),
		ShortMessage: m.ShortMessage,
		Message:      m.Message,
		Replacements: m.Replacements,
		RuleCategory: m.CategoryID,
		RuleID:       m.RuleID,
	}, nil
}

func position(src *syntax.Source, offset int) (Position, error) {
	line, ok := src.ByteToLine(offset)
	if !ok {
		return Position{}, fmt.Errorf("%w: byte %d has no line", ErrUnmappable, offset)
	}
	column, ok := src.ByteToColumn(offset)
	if !ok {
		return Position{}, fmt.Errorf("%w: byte %d has no column", ErrUnmappable, offset)
	}
	return Position{Line: line + 1, Column: column + 1}, nil
}

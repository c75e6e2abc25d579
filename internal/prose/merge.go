package prose

import "prosecheck/internal/syntax"

// MinParagraphLength is the byte length below which a paragraph is folded
// into the paragraphs that follow it before checking.
const MinParagraphLength = 512

// paragraphSeparator joins merged paragraphs. It has no source location.
const paragraphSeparator = "\r\n\r\n"

// MergeShort folds short paragraphs forward. A short paragraph absorbs the
// paragraphs after it, separated by a blank line, until its text reaches
// minLength. Only forward accumulation happens: a short last paragraph
// stays short.
func MergeShort(paragraphs []Paragraph, minLength int) []Paragraph {
	output := make([]Paragraph, 0, len(paragraphs))
	latestIsShort := false

	for _, p := range paragraphs {
		if latestIsShort {
			latest := &output[len(output)-1]
			latest.Append(Synthesized(paragraphSeparator, syntax.Detached()))
			latest.Append(p.Fragments...)

			if latest.Len() >= minLength {
				latestIsShort = false
			}
			continue
		}

		if p.Len() < minLength {
			latestIsShort = true
		}

		output = append(output, Paragraph{Fragments: append([]Fragment(nil), p.Fragments...)})
	}

	return output
}

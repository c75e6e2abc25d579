package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"prosecheck/internal/checker"
)

// TextRenderer prints problems in a compiler-like layout.
type TextRenderer struct {
	w *bufio.Writer

	emph     *color.Color
	sub      *color.Color
	arrow    *color.Color
	bold     *color.Color
	finished *color.Color
}

func NewTextRenderer(w io.Writer, useColor bool) *TextRenderer {
	r := &TextRenderer{
		w:        bufio.NewWriter(w),
		emph:     color.New(color.FgYellow, color.Bold),
		sub:      color.New(color.FgHiBlack, color.Bold),
		arrow:    color.New(color.FgHiCyan, color.Bold),
		bold:     color.New(color.Bold),
		finished: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{r.emph, r.sub, r.arrow, r.bold, r.finished} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *TextRenderer) Render(report FileReport) error {
	for _, p := range report.Problems {
		r.problem(report.Path, p)
	}
	return r.w.Flush()
}

func (r *TextRenderer) problem(path string, p checker.Problem) {
	w := r.w

	fmt.Fprintf(w, "%s%s %s\n", r.emph.Sprint("Problem"), r.sub.Sprint(":"),
		r.sub.Sprintf("%s: `%s`", p.ShortMessage, p.MatchString))
	fmt.Fprintf(w, "  %s %s %s\n", r.arrow.Sprint("-->"), path, p.Range)

	context := strings.ReplaceAll(p.Context, "\n", " ")
	fmt.Fprintln(w, "   |")
	fmt.Fprintf(w, "   | %s\n", context)
	if caret := caretLine(context, p.MatchString); caret != "" {
		fmt.Fprintf(w, "   | %s\n", r.emph.Sprint(caret))
	} else {
		fmt.Fprintln(w, "   |")
	}

	fmt.Fprintf(w, "   %s %s: %s\n", r.bold.Sprint("="), r.sub.Sprint("Detail"), p.Message)
	fmt.Fprintf(w, "   %s %s: %s\n", r.bold.Sprint("="), r.sub.Sprint("Category"), p.RuleCategory)
	fmt.Fprintf(w, "   %s %s: %s\n", r.bold.Sprint("="), r.sub.Sprint("Rule ID"), p.RuleID)

	if len(p.Replacements) > 0 {
		fmt.Fprintf(w, "%s:\n", r.emph.Sprint("Did you mean"))
		for i, replacement := range p.Replacements {
			fmt.Fprintf(w, "   %s %s\n", r.sub.Sprintf("%d.", i+1), replacement)
		}
	}

	fmt.Fprintln(w)
}

// caretLine underlines the first occurrence of match in context, measured in
// terminal cells. It is empty when the match is not in the context.
func caretLine(context, match string) string {
	match = strings.ReplaceAll(match, "\n", " ")
	if match == "" {
		return ""
	}
	i := strings.Index(context, match)
	if i < 0 {
		return ""
	}
	pad := runewidth.StringWidth(context[:i])
	width := max(runewidth.StringWidth(match), 1)
	return strings.Repeat(" ", pad) + strings.Repeat("^", width)
}

func (r *TextRenderer) Finish(s Summary) error {
	fmt.Fprintf(r.w, "%s: processed %s paragraphs and found %s problems in %s\n",
		r.finished.Sprint("Finished"),
		r.bold.Sprint(s.Paragraphs),
		r.bold.Sprint(s.Problems),
		r.bold.Sprintf("%.2fs", s.Duration.Seconds()),
	)
	return r.w.Flush()
}

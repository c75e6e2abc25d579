package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"prosecheck/internal/languagetool"
	"prosecheck/internal/prose"
	"prosecheck/internal/syntax"
)

// ErrCheckFailed wraps the first failing request of a document check.
var ErrCheckFailed = errors.New("failed to check document with languagetool")

// Service checks a single text. *languagetool.Client implements it. A nil
// response with a nil error counts as a response without matches.
type Service interface {
	Check(ctx context.Context, r languagetool.Request) (*languagetool.Response, error)
}

// Options configure every request of a run. They are read-only once the
// Checker is built.
type Options struct {
	Language           string
	Picky              bool
	DisabledRules      []string
	DisabledCategories []string
	// IgnoreWords drops matches whose text equals one of the words exactly.
	IgnoreWords []string
	// Concurrency bounds in-flight requests per document. Zero is unbounded.
	Concurrency int
}

// Checker drives a document through segmentation, the checking service and
// reconciliation.
type Checker struct {
	service Service
	opts    Options
	ignore  map[string]bool
	logger  *slog.Logger
}

// New creates a checker. A nil logger discards all output.
func New(service Service, opts Options, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ignore := make(map[string]bool, len(opts.IgnoreWords))
	for _, w := range opts.IgnoreWords {
		ignore[w] = true
	}
	return &Checker{
		service: service,
		opts:    opts,
		ignore:  ignore,
		logger:  logger,
	}
}

// unit is a merged paragraph materialized for checking.
type unit struct {
	index         int
	text          string
	contributions []prose.Contribution
}

type outcome struct {
	unit     *unit
	response *languagetool.Response
	err      error
}

// Check segments the document, checks every paragraph concurrently and
// returns the located problems in document order. If any request fails the
// whole check fails and no problems are returned.
func (c *Checker) Check(ctx context.Context, doc *syntax.Document) ([]Problem, Metadata, error) {
	path := doc.Source.Path()
	c.logger.Debug("syntax tree", "path", path, "tree", doc.Root.Dump())

	paragraphs := prose.MergeShort(prose.Segment(doc.Root), prose.MinParagraphLength)
	units := make([]unit, len(paragraphs))
	texts := make([]string, len(paragraphs))
	for i := range paragraphs {
		text, contributions := paragraphs[i].Text()
		units[i] = unit{index: i, text: text, contributions: contributions}
		texts[i] = text
	}
	c.logger.Debug("paragraphs", "path", path, "count", len(units), "texts", texts)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if c.opts.Concurrency > 0 {
		g.SetLimit(c.opts.Concurrency)
	}
	// Buffered so abandoned requests never block after an early return.
	outcomes := make(chan outcome, len(units))
	for i := range units {
		u := &units[i]
		g.Go(func() error {
			resp, err := c.service.Check(gctx, c.request(u.text))
			outcomes <- outcome{unit: u, response: resp, err: err}
			return err
		})
	}
	defer func() { _ = g.Wait() }()

	var problems []Problem
	for range units {
		out := <-outcomes
		if out.err != nil {
			return nil, Metadata{}, fmt.Errorf("%w: %s paragraph %d: %w", ErrCheckFailed, path, out.unit.index+1, out.err)
		}
		if out.response == nil {
			out.response = &languagetool.Response{}
		}
		c.logger.Debug("response",
			"path", path,
			"paragraph", out.unit.index+1,
			"text", out.unit.text,
			"contributions", out.unit.contributions,
			"matches", out.response.Matches,
		)
		problems = append(problems, c.reconcile(doc.Source, out.unit, out.response)...)
	}

	meta := Metadata{
		WordCount:       prose.CountWords(strings.Join(texts, " ")),
		ParagraphCount:  len(units),
		RequestDuration: time.Since(start),
	}

	SortProblems(problems)
	c.logger.Debug("problems", "path", path, "count", len(problems), "problems", problems)

	return problems, meta, nil
}

func (c *Checker) request(text string) languagetool.Request {
	level := languagetool.LevelDefault
	if c.opts.Picky {
		level = languagetool.LevelPicky
	}
	return languagetool.Request{
		Text:               text,
		Language:           c.opts.Language,
		Level:              level,
		DisabledRules:      c.opts.DisabledRules,
		DisabledCategories: c.opts.DisabledCategories,
	}
}

func (c *Checker) reconcile(src *syntax.Source, u *unit, resp *languagetool.Response) []Problem {
	var problems []Problem
	for _, m := range resp.Matches {
		if m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(u.text) {
			c.logger.Warn("match outside of paragraph text",
				"path", src.Path(), "rule", m.RuleID, "offset", m.Offset, "length", m.Length)
			continue
		}

		matchString := u.text[m.Offset : m.Offset+m.Length]
		if c.ignore[matchString] {
			continue
		}

		problem, err := Reconcile(src, m, matchString, u.contributions)
		if err != nil {
			c.logger.Warn("failed to make problem for match",
				"path", src.Path(), "rule", m.RuleID, "match", matchString, "error", err)
			continue
		}
		problems = append(problems, problem)
	}
	return problems
}

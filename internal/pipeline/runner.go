package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"prosecheck/internal/checker"
	"prosecheck/internal/crawler"
	"prosecheck/internal/extractor"
	"prosecheck/internal/git"
	"prosecheck/internal/report"
	"prosecheck/internal/syntax"
)

// DocumentChecker checks a parsed document. *checker.Checker implements it.
type DocumentChecker interface {
	Check(ctx context.Context, doc *syntax.Document) ([]checker.Problem, checker.Metadata, error)
}

// Runner checks every document under the given targets, one file at a time.
type Runner struct {
	checker  DocumentChecker
	renderer report.Renderer
	logger   *slog.Logger

	// ChangedRef limits the run to lines changed since this git ref when set.
	ChangedRef string
	// WorkDir is where git runs. Empty means the process working directory.
	WorkDir string
}

func NewRunner(c DocumentChecker, r report.Renderer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{checker: c, renderer: r, logger: logger}
}

// Run checks targets (files or directories) and renders each file as soon as
// it is checked. The first failing file aborts the run.
func (r *Runner) Run(ctx context.Context, targets []string) (*report.Summary, error) {
	changes, err := r.detectChangesStage(ctx)
	if err != nil {
		return nil, err
	}

	paths, err := r.collectStage(targets, changes)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("documents", "count", len(paths), "paths", paths)

	summary := &report.Summary{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rep, err := r.checkStage(ctx, path, changes)
		if err != nil {
			return summary, err
		}
		if err := r.renderer.Render(*rep); err != nil {
			return summary, fmt.Errorf("failed to display problems: %w", err)
		}
		summary.Add(*rep)
	}

	if err := r.renderer.Finish(*summary); err != nil {
		return summary, fmt.Errorf("failed to display summary: %w", err)
	}
	return summary, nil
}

func (r *Runner) detectChangesStage(ctx context.Context) (git.Changes, error) {
	if r.ChangedRef == "" {
		return nil, nil
	}

	dir := r.WorkDir
	if dir == "" {
		dir = "."
	}
	files, err := git.GetChangedFiles(ctx, dir, r.ChangedRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get git changes: %w", err)
	}
	r.logger.Debug("changed files", "ref", r.ChangedRef, "count", len(files))
	return git.NewChanges(files), nil
}

func (r *Runner) collectStage(targets []string, changes git.Changes) ([]string, error) {
	c := crawler.NewCrawler(extractor.Supported)

	var paths []string
	seen := make(map[string]bool)
	for _, target := range targets {
		err := c.Scan(target, func(path string) error {
			if seen[path] {
				return nil
			}
			seen[path] = true

			if changes != nil {
				if _, ok := changes.Lines(path); !ok {
					return nil
				}
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func (r *Runner) checkStage(ctx context.Context, path string, changes git.Changes) (*report.FileReport, error) {
	ext, err := extractor.ForPath(path)
	if err != nil {
		return nil, err
	}

	doc, err := ext.ExtractFromFile(ctx, path)
	if err != nil {
		return nil, err
	}

	problems, meta, err := r.checker.Check(ctx, doc)
	if err != nil {
		return nil, err
	}

	if changes != nil {
		lines, _ := changes.Lines(path)
		before := len(problems)
		problems = slices.DeleteFunc(problems, func(p checker.Problem) bool {
			return !p.Range.Touches(lines)
		})
		r.logger.Debug("changed line filter", "path", path, "kept", len(problems), "dropped", before-len(problems))
	}

	return &report.FileReport{Path: path, Problems: problems, Metadata: meta}, nil
}

package crawler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Crawler finds the documents under the paths given on the command line.
type Crawler struct {
	supported func(path string) bool
	ignored   []string
}

// NewCrawler creates a new crawler that reports files accepted by supported.
func NewCrawler(supported func(path string) bool) *Crawler {
	return &Crawler{
		supported: supported,
		ignored:   []string{".git", "vendor", "node_modules", "testdata"},
	}
}

// Scan walks root and calls onDocument for every supported file, in lexical
// order. A root that is a file is reported as-is, supported or not, so that
// the caller can report why it cannot be checked. An error returned by
// onDocument stops the walk.
func (c *Crawler) Scan(root string, onDocument func(path string) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return onDocument(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path != root && slices.Contains(c.ignored, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !c.supported(path) {
			return nil
		}
		return onDocument(path)
	})
}

package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prosecheck/internal/syntax"
)

// ErrUnsupported is returned for languages and files no extractor handles.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor reads documents of one language into syntax trees.
type Extractor struct {
	langExtractor LanguageExtractor
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	for _, l := range languages {
		if l.Name() == strings.ToLower(lang) {
			return &Extractor{langExtractor: l}, nil
		}
	}
	return nil, fmt.Errorf("%w: language %s", ErrUnsupported, lang)
}

// ForPath picks the extractor by the file extension of path.
func ForPath(path string) (*Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range languages {
		for _, e := range l.Extensions() {
			if e == ext {
				return &Extractor{langExtractor: l}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// Supported reports whether some extractor handles path.
func Supported(path string) bool {
	_, err := ForPath(path)
	return err == nil
}

func (e *Extractor) Language() string {
	return e.langExtractor.Name()
}

// Extract parses content that was read from path.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (*syntax.Document, error) {
	root, err := e.langExtractor.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	return &syntax.Document{Source: syntax.NewSource(path, content), Root: root}, nil
}

// ExtractFromFile reads and parses a single document.
func (e *Extractor) ExtractFromFile(ctx context.Context, path string) (*syntax.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(ctx, path, content)
}

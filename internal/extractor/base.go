package extractor

import (
	"context"

	"prosecheck/internal/syntax"
)

// LanguageExtractor defines the interface that each document format must implement.
type LanguageExtractor interface {
	// Name is the language name accepted by NewExtractor.
	Name() string
	// Extensions lists the lowercase file extensions, with the leading dot.
	Extensions() []string
	// Parse builds the syntax tree of content. Spans are byte offsets into content.
	Parse(ctx context.Context, content []byte) (*syntax.Node, error)
}

// languages are the supported formats in lookup order.
var languages = []LanguageExtractor{
	&MarkdownExtractor{},
	&HTMLExtractor{},
}

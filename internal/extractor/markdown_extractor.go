package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	markdowninline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"

	"prosecheck/internal/syntax"
)

// MarkdownExtractor implements LanguageExtractor for CommonMark and GFM.
//
// The block grammar gives the document structure. Every `inline` node is
// parsed again with the inline grammar, restricted to the inline node minus
// the block continuations (quote markers, list indentation) it spans.
type MarkdownExtractor struct{}

func (m *MarkdownExtractor) Name() string { return "markdown" }

func (m *MarkdownExtractor) Extensions() []string {
	return []string{".md", ".markdown", ".mdown", ".mkd"}
}

func (m *MarkdownExtractor) Parse(ctx context.Context, content []byte) (*syntax.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(markdown.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown blocks: %w", err)
	}
	defer tree.Close()

	inlineParser := sitter.NewParser()
	defer inlineParser.Close()
	inlineParser.SetLanguage(markdowninline.GetLanguage())

	w := &markdownWalker{
		ctx:     ctx,
		c:       newConverter(content),
		content: content,
		inline:  inlineParser,
	}
	root := tree.RootNode()
	w.conts = continuations(root)
	for _, n := range w.conts {
		w.c.exclude(w.c.span(n))
	}

	doc := w.c.inner(syntax.KindMarkup, root, w.block)
	if w.err != nil {
		return nil, w.err
	}
	if w.c.err != nil {
		return nil, w.c.err
	}
	return doc, nil
}

var (
	linkDefinitionLine = regexp.MustCompile(`^\[(?:[^\[\]\\]|\\.)+\]:`)
	linkTitleLine      = regexp.MustCompile(`^(?:"[^"]*"|'[^']*'|\([^)]*\))\s*$`)
)

// linkDefinitions reports whether a paragraph holds nothing but link
// reference definitions. The block grammar reads them as a paragraph with a
// shortcut link. A paragraph that goes on with prose stays prose.
func linkDefinitions(text string) bool {
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	for i, line := range lines {
		line = strings.TrimLeft(strings.TrimSuffix(line, "\r"), " \t>")
		if linkDefinitionLine.MatchString(line) {
			continue
		}
		if i == 0 || !linkTitleLine.MatchString(line) {
			return false
		}
	}
	return true
}

type markdownWalker struct {
	ctx     context.Context
	c       *converter
	content []byte
	inline  *sitter.Parser
	// conts are the block continuations of the whole document in order.
	conts []*sitter.Node
	err   error
}

func continuations(n *sitter.Node) []*sitter.Node {
	if n.Type() == "block_continuation" {
		return []*sitter.Node{n}
	}
	var nodes []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil {
			nodes = append(nodes, continuations(child)...)
		}
	}
	return nodes
}

func (w *markdownWalker) block(n *sitter.Node) []*syntax.Node {
	c := w.c
	start := c.span(n).Start

	switch n.Type() {
	case "inline":
		return []*syntax.Node{w.parseInline(n)}
	case "document", "section", "list", "pipe_table":
		return []*syntax.Node{c.inner(syntax.KindContainer, n, w.block)}
	case "paragraph":
		if linkDefinitions(c.text(c.span(n))) {
			return []*syntax.Node{parbreak(start), c.leaf(syntax.KindLetBinding, n)}
		}
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindMarkup, n, w.block)}
	case "block_quote":
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindMarkup, n, w.block)}
	case "atx_heading", "setext_heading":
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindHeading, n, w.block)}
	case "list_item":
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindListItem, n, w.block)}
	case "pipe_table_header", "pipe_table_row":
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindContainer, n, w.block)}
	case "pipe_table_cell":
		// Cells are checked on their own.
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindMarkup, n, w.block)}
	case "fenced_code_block", "indented_code_block", "html_block":
		return []*syntax.Node{parbreak(start), c.leaf(syntax.KindRaw, n)}
	case "latex_block":
		return []*syntax.Node{c.leaf(syntax.KindEquation, n)}
	case "link_reference_definition", "minus_metadata", "plus_metadata":
		return []*syntax.Node{parbreak(start), c.inner(syntax.KindLetBinding, n, w.block)}
	case "thematic_break":
		return []*syntax.Node{syntax.Leaf(syntax.KindParbreak, c.text(c.span(n)), c.span(n))}
	}

	if n.ChildCount() == 0 {
		// Markers, delimiters, continuations and punctuation of the block
		// structure.
		return []*syntax.Node{c.leaf(syntax.KindMarker, n)}
	}
	return []*syntax.Node{c.inner(syntax.KindContainer, n, w.block)}
}

// parseInline parses the content of a block-level inline node with the
// inline grammar. Offsets of the inline tree are document offsets.
func (w *markdownWalker) parseInline(n *sitter.Node) *syntax.Node {
	c := w.c
	s := c.span(n)

	ranges := w.inlineRanges(n)
	if len(ranges) == 0 {
		return syntax.Inner(syntax.KindMarkup, s, c.gap(s.Start, s.End)...)
	}

	w.inline.SetIncludedRanges(ranges)
	tree, err := w.inline.ParseCtx(w.ctx, nil, w.content)
	if err != nil {
		if w.err == nil {
			w.err = fmt.Errorf("failed to parse markdown inline at %s: %w", s, err)
		}
		return syntax.Inner(syntax.KindMarkup, s)
	}
	defer tree.Close()

	return syntax.Inner(syntax.KindMarkup, s, c.children(tree.RootNode(), s, w.inlineNode)...)
}

// inlineRanges is the inline node with its block continuations cut out.
func (w *markdownWalker) inlineRanges(n *sitter.Node) []sitter.Range {
	var ranges []sitter.Range
	startByte, startPoint := n.StartByte(), n.StartPoint()
	add := func(endByte uint32, endPoint sitter.Point) {
		if endByte > startByte {
			ranges = append(ranges, sitter.Range{
				StartPoint: startPoint,
				EndPoint:   endPoint,
				StartByte:  startByte,
				EndByte:    endByte,
			})
		}
	}
	for _, cont := range w.conts {
		if cont.StartByte() < startByte || cont.EndByte() > n.EndByte() {
			continue
		}
		add(cont.StartByte(), cont.StartPoint())
		startByte, startPoint = cont.EndByte(), cont.EndPoint()
	}
	add(n.EndByte(), n.EndPoint())
	return ranges
}

func (w *markdownWalker) inlineNode(n *sitter.Node) []*syntax.Node {
	c := w.c

	switch n.Type() {
	case "emphasis":
		return []*syntax.Node{c.inner(syntax.KindEmph, n, w.inlineNode)}
	case "strong_emphasis":
		return []*syntax.Node{c.inner(syntax.KindStrong, n, w.inlineNode)}
	case "code_span":
		return []*syntax.Node{c.leaf(syntax.KindRaw, n)}
	case "latex_block":
		return []*syntax.Node{c.leaf(syntax.KindEquation, n)}
	case "uri_autolink", "email_autolink":
		return []*syntax.Node{c.leaf(syntax.KindLink, n)}
	case "inline_link", "full_reference_link", "collapsed_reference_link", "shortcut_link", "image":
		return []*syntax.Node{c.inner(syntax.KindFuncCall, n, w.inlineNode)}
	case "link_text", "image_description":
		return []*syntax.Node{c.inner(syntax.KindMarkup, n, w.inlineNode)}
	case "link_destination", "link_title", "link_label":
		return []*syntax.Node{c.leaf(syntax.KindLabel, n)}
	case "html_tag", "emphasis_delimiter", "code_span_delimiter":
		return []*syntax.Node{c.leaf(syntax.KindMarker, n)}
	case "entity_reference", "numeric_character_reference":
		return []*syntax.Node{c.entity(n)}
	case "hard_line_break":
		return []*syntax.Node{c.leaf(syntax.KindSpace, n)}
	case "backslash_escape":
		// Only the escaped character is prose.
		s := c.span(n)
		s.Start++
		return []*syntax.Node{syntax.Leaf(syntax.KindText, c.text(s), s)}
	}

	if n.ChildCount() == 0 {
		// Punctuation tokens read as text.
		s := c.span(n)
		return c.gap(s.Start, s.End)
	}
	return []*syntax.Node{c.inner(syntax.KindContainer, n, w.inlineNode)}
}

package extractor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"prosecheck/internal/syntax"
)

var (
	htmlBlockTags = tagSet(
		"address", "article", "aside", "blockquote", "body", "caption", "dd", "details", "dialog",
		"div", "dl", "dt", "fieldset", "figcaption", "figure", "footer", "form", "head", "header",
		"hgroup", "html", "legend", "li", "main", "nav", "ol", "p", "section", "summary", "table",
		"tbody", "td", "tfoot", "th", "thead", "title", "tr", "ul",
	)
	htmlHeadingTags = tagSet("h1", "h2", "h3", "h4", "h5", "h6")
	htmlRawTags     = tagSet("code", "pre", "kbd", "samp", "var", "textarea")
	htmlEmbedTags   = tagSet("svg", "canvas", "iframe", "object", "template", "video", "audio", "select")
	// Elements of embedded content that still hold prose.
	htmlEmbedTextTags = tagSet("title", "desc", "text", "figcaption", "option")
)

func tagSet(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

// HTMLExtractor implements LanguageExtractor for HTML documents.
type HTMLExtractor struct{}

func (h *HTMLExtractor) Name() string { return "html" }

func (h *HTMLExtractor) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

func (h *HTMLExtractor) Parse(ctx context.Context, content []byte) (*syntax.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(html.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	defer tree.Close()

	w := &htmlWalker{c: newConverter(content)}
	doc := w.c.inner(syntax.KindMarkup, tree.RootNode(), w.node)
	if w.c.err != nil {
		return nil, w.c.err
	}
	return doc, nil
}

type htmlWalker struct {
	c *converter
	// embedded is the depth of embedded content elements being visited.
	embedded int
}

func (w *htmlWalker) node(n *sitter.Node) []*syntax.Node {
	c := w.c

	switch n.Type() {
	case "element":
		return w.element(n)
	case "script_element", "style_element":
		return []*syntax.Node{c.leaf(syntax.KindRaw, n)}
	case "start_tag", "end_tag", "self_closing_tag", "erroneous_end_tag", "doctype":
		return []*syntax.Node{c.leaf(syntax.KindMarker, n)}
	case "comment":
		return []*syntax.Node{c.leaf(syntax.KindBlockComment, n)}
	case "text":
		s := c.span(n)
		return c.words(s.Start, s.End)
	case "entity":
		return []*syntax.Node{c.entity(n)}
	}

	if n.ChildCount() == 0 {
		return []*syntax.Node{c.leaf(syntax.KindMarker, n)}
	}
	return []*syntax.Node{c.inner(syntax.KindContainer, n, w.node)}
}

func (w *htmlWalker) element(n *sitter.Node) []*syntax.Node {
	c := w.c
	tag := w.tagName(n)

	if w.embedded > 0 {
		if htmlEmbedTextTags[tag] {
			return []*syntax.Node{c.inner(syntax.KindMarkup, n, w.node)}
		}
		return []*syntax.Node{c.inner(syntax.KindContainer, n, w.node)}
	}

	switch {
	case tag == "br" || tag == "hr":
		return []*syntax.Node{w.void(tag, n)}
	case tag == "math":
		return []*syntax.Node{c.leaf(syntax.KindEquation, n)}
	case htmlRawTags[tag]:
		return []*syntax.Node{c.leaf(syntax.KindRaw, n)}
	case htmlEmbedTags[tag]:
		w.embedded++
		defer func() { w.embedded-- }()
		return []*syntax.Node{c.inner(syntax.KindFuncCall, n, w.node)}
	case tag == "strong" || tag == "b":
		return []*syntax.Node{c.inner(syntax.KindStrong, n, w.node)}
	case tag == "em" || tag == "i":
		return []*syntax.Node{c.inner(syntax.KindEmph, n, w.node)}
	case htmlHeadingTags[tag]:
		return w.block(syntax.KindHeading, n)
	case tag == "li":
		return w.block(syntax.KindListItem, n)
	case htmlBlockTags[tag]:
		return w.block(syntax.KindContainer, n)
	}
	return []*syntax.Node{c.inner(syntax.KindContainer, n, w.node)}
}

// void maps the tag of a <br> or <hr> to a space or a break. An unclosed
// void tag is parsed as an element that holds every following sibling up to
// the parent's end tag, so the rest of the element is visited as usual.
func (w *htmlWalker) void(tag string, n *sitter.Node) *syntax.Node {
	c := w.c
	visit := func(child *sitter.Node) []*syntax.Node {
		if t := child.Type(); t != "start_tag" && t != "self_closing_tag" {
			return w.node(child)
		}
		s := c.span(child)
		if tag == "br" {
			return []*syntax.Node{syntax.Leaf(syntax.KindSpace, " ", s)}
		}
		return []*syntax.Node{syntax.Leaf(syntax.KindParbreak, c.text(s), s)}
	}
	return c.inner(syntax.KindContainer, n, visit)
}

// block wraps a block element in paragraph breaks so its text never runs
// into its neighbours.
func (w *htmlWalker) block(kind syntax.Kind, n *sitter.Node) []*syntax.Node {
	s := w.c.span(n)
	return []*syntax.Node{
		parbreak(s.Start),
		w.c.inner(kind, n, w.node),
		parbreak(s.End),
	}
}

func (w *htmlWalker) tagName(n *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if t := child.Type(); t != "start_tag" && t != "self_closing_tag" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if name := child.Child(j); name != nil && name.Type() == "tag_name" {
				return strings.ToLower(w.c.text(w.c.span(name)))
			}
		}
	}
	return ""
}

package extractor

import (
	"fmt"
	"html"
	"sort"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"prosecheck/internal/syntax"
)

// converter holds what every front end needs while turning a tree-sitter
// tree into a syntax tree: the source bytes, the byte ranges that must never
// be read as text, and the first offset conversion error.
type converter struct {
	content  []byte
	excluded []syntax.Span
	err      error
}

func newConverter(content []byte) *converter {
	return &converter{content: content}
}

// exclude marks byte ranges that belong to the surrounding construct rather
// than to the text around them, such as block quote markers inside a
// paragraph. Gaps covering them yield marker leaves.
func (c *converter) exclude(spans ...syntax.Span) {
	c.excluded = append(c.excluded, spans...)
	sort.Slice(c.excluded, func(i, j int) bool { return c.excluded[i].Start < c.excluded[j].Start })
}

func (c *converter) offset(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("node offset %d: %w", v, err)
	}
	return n
}

func (c *converter) span(n *sitter.Node) syntax.Span {
	return syntax.Span{Start: c.offset(n.StartByte()), End: c.offset(n.EndByte())}
}

func (c *converter) text(s syntax.Span) string {
	if s.Start < 0 || s.End > len(c.content) || s.Start > s.End {
		return ""
	}
	return string(c.content[s.Start:s.End])
}

func (c *converter) leaf(kind syntax.Kind, n *sitter.Node) *syntax.Node {
	s := c.span(n)
	return syntax.Leaf(kind, c.text(s), s)
}

// entity decodes a character reference. The leaf keeps the span of the
// reference so matches inside it still map back to the source.
func (c *converter) entity(n *sitter.Node) *syntax.Node {
	s := c.span(n)
	return syntax.Leaf(syntax.KindText, html.UnescapeString(c.text(s)), s)
}

// inner visits the children of n with visit and fills the bytes between them
// with text and space leaves.
func (c *converter) inner(kind syntax.Kind, n *sitter.Node, visit func(*sitter.Node) []*syntax.Node) *syntax.Node {
	s := c.span(n)
	return syntax.Inner(kind, s, c.children(n, s, visit)...)
}

func (c *converter) children(n *sitter.Node, s syntax.Span, visit func(*sitter.Node) []*syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	cursor := s.Start
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		cs := c.span(child)
		if cs.Start > cursor {
			out = append(out, c.gap(cursor, cs.Start)...)
		}
		out = append(out, visit(child)...)
		if cs.End > cursor {
			cursor = cs.End
		}
	}
	if s.End > cursor {
		out = append(out, c.gap(cursor, s.End)...)
	}
	return out
}

// gap covers text that no grammar node claims. Excluded ranges inside it
// become markers; the rest is split into text and space leaves.
func (c *converter) gap(start, end int) []*syntax.Node {
	var out []*syntax.Node
	for _, ex := range c.excluded {
		if ex.End <= start || ex.Start >= end {
			continue
		}
		if ex.Start > start {
			out = append(out, c.words(start, ex.Start)...)
		}
		s := syntax.Span{Start: max(ex.Start, start), End: min(ex.End, end)}
		out = append(out, syntax.Leaf(syntax.KindMarker, c.text(s), s))
		start = s.End
	}
	if end > start {
		out = append(out, c.words(start, end)...)
	}
	return out
}

// words splits a byte range into alternating runs of text and whitespace.
func (c *converter) words(start, end int) []*syntax.Node {
	var out []*syntax.Node
	i := start
	for i < end {
		runStart := i
		r, size := utf8.DecodeRune(c.content[i:end])
		space := unicode.IsSpace(r)
		i += size
		for i < end {
			r, size = utf8.DecodeRune(c.content[i:end])
			if unicode.IsSpace(r) != space {
				break
			}
			i += size
		}
		s := syntax.Span{Start: runStart, End: i}
		kind := syntax.KindText
		if space {
			kind = syntax.KindSpace
		}
		out = append(out, syntax.Leaf(kind, c.text(s), s))
	}
	return out
}

// parbreak is a zero-width break at the start of a block.
func parbreak(at int) *syntax.Node {
	return syntax.Leaf(syntax.KindParbreak, "", syntax.Span{Start: at, End: at})
}

package prose

import (
	"strings"

	"prosecheck/internal/syntax"
)

// Fragment is one piece of a paragraph: either a node borrowed from the
// tree or text synthesized in place of one.
type Fragment struct {
	node *syntax.Node
	text string
	span syntax.Span
}

// Borrowed wraps a tree node.
func Borrowed(node *syntax.Node) Fragment {
	return Fragment{node: node}
}

// Synthesized creates a fragment that exists only in the paragraph text.
// The span names where it came from, or is detached.
func Synthesized(text string, span syntax.Span) Fragment {
	return Fragment{text: text, span: span}
}

func (f Fragment) IsSynthesized() bool { return f.node == nil }

func (f Fragment) Text() string {
	if f.node != nil {
		return f.node.Text()
	}
	return f.text
}

func (f Fragment) Span() syntax.Span {
	if f.node != nil {
		return f.node.Span()
	}
	return f.span
}

// Contribution records that the fragment at Span produced Length bytes of
// the paragraph text starting at Offset.
type Contribution struct {
	Span   syntax.Span
	Offset int
	Length int
}

// Contains reports whether the paragraph offset falls inside this contribution.
// Empty contributions contain nothing.
func (c Contribution) Contains(offset int) bool {
	return c.Length != 0 && offset >= c.Offset && offset < c.Offset+c.Length
}

// Paragraph is an ordered run of fragments checked as one unit.
type Paragraph struct {
	Fragments []Fragment
}

func (p *Paragraph) IsEmpty() bool { return len(p.Fragments) == 0 }

func (p *Paragraph) Append(f ...Fragment) {
	p.Fragments = append(p.Fragments, f...)
}

// Len is the byte length of the materialized text.
func (p *Paragraph) Len() int {
	n := 0
	for _, f := range p.Fragments {
		n += len(f.Text())
	}
	return n
}

// Text concatenates the fragments and reports each fragment's contribution.
func (p *Paragraph) Text() (string, []Contribution) {
	var sb strings.Builder
	contributions := make([]Contribution, 0, len(p.Fragments))

	for _, f := range p.Fragments {
		text := f.Text()
		contributions = append(contributions, Contribution{
			Span:   f.Span(),
			Offset: sb.Len(),
			Length: len(text),
		})
		sb.WriteString(text)
	}

	return sb.String(), contributions
}

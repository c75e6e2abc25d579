package syntax

import (
	"fmt"
	"strings"
)

// Span locates a node in its source as a half-open byte range.
// A detached span belongs to synthesized text and resolves to nothing.
type Span struct {
	Start int
	End   int
}

// Detached returns a span that does not point into any source.
func Detached() Span {
	return Span{Start: -1, End: -1}
}

func (s Span) IsDetached() bool {
	return s.Start < 0 || s.End < s.Start
}

func (s Span) Len() int {
	if s.IsDetached() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	if s.IsDetached() {
		return "detached"
	}
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Node is an immutable syntax tree node. Only leaves carry text.
type Node struct {
	kind     Kind
	text     string
	span     Span
	children []*Node
}

// Leaf creates a text-bearing node without children.
func Leaf(kind Kind, text string, span Span) *Node {
	return &Node{kind: kind, text: text, span: span}
}

// Inner creates a node that only groups children.
func Inner(kind Kind, span Span, children ...*Node) *Node {
	return &Node{kind: kind, span: span, children: children}
}

func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Text() string      { return n.text }
func (n *Node) Span() Span        { return n.span }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) IsLeaf() bool      { return len(n.children) == 0 }
func (n *Node) ChildCount() int   { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }

// Dump renders the subtree one node per line, indented by depth.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s [%s]", n.kind, n.span)
	if n.text != "" {
		fmt.Fprintf(sb, " %q", n.text)
	}
	sb.WriteByte('\n')
	for _, c := range n.children {
		c.dump(sb, depth+1)
	}
}

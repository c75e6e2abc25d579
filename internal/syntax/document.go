package syntax

// Document is a parsed file: its source text and the root of its tree.
type Document struct {
	Source *Source
	Root   *Node
}

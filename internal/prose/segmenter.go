package prose

import "prosecheck/internal/syntax"

// Segment walks the tree depth-first and splits its prose into paragraphs.
// Every returned paragraph is non-empty and paragraphs are in document order.
func Segment(root *syntax.Node) []Paragraph {
	if root == nil {
		return nil
	}

	sealed, open := segment(root, Paragraph{}, ModeProse)
	if !open.IsEmpty() {
		sealed = append(sealed, open)
	}
	return sealed
}

// segment handles one node. It returns the paragraphs sealed inside the
// subtree and the paragraph still open after it.
func segment(node *syntax.Node, current Paragraph, mode Mode) ([]Paragraph, Paragraph) {
	var sealed []Paragraph

	switch Classify(node.Kind(), mode) {
	case ActionSkip:
	case ActionExitCode:
		mode = ModeProse
	case ActionEnterCode:
		mode = ModeCode
	case ActionBreak:
		if !current.IsEmpty() {
			sealed = append(sealed, current)
			current = Paragraph{}
		}
	case ActionIgnore:
		return sealed, current
	case ActionPlaceholder:
		// A placeholder only keeps surrounding prose grammatical; at the
		// start of a paragraph there is nothing to keep.
		if !current.IsEmpty() {
			current.Append(Synthesized(Placeholder(node.Kind()), node.Span()))
		}
		return sealed, current
	case ActionWhitespace:
		if node.Text() != "" {
			if current.IsEmpty() {
				return nil, current
			}
			current.Append(Borrowed(node))
		}
	case ActionText:
		if node.Text() != "" {
			current.Append(Borrowed(node))
		}
	}

	for _, child := range node.Children() {
		childSealed, next := segment(child, current, mode)
		sealed = append(sealed, childSealed...)
		current = next
	}

	return sealed, current
}

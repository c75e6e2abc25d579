package prose

import "prosecheck/internal/syntax"

// Mode is the traversal state threaded through the segmenter.
type Mode int

const (
	// ModeProse records text and honours paragraph breaks.
	ModeProse Mode = iota
	// ModeCode skips everything until a markup region starts.
	ModeCode
)

func (m Mode) String() string {
	if m == ModeCode {
		return "code"
	}
	return "prose"
}

// Action is what the segmenter does with a node.
type Action int

const (
	// ActionText appends the node's text when it has any, then visits children.
	ActionText Action = iota
	// ActionIgnore drops the node and its subtree.
	ActionIgnore
	// ActionPlaceholder replaces the subtree with a token naming its kind.
	ActionPlaceholder
	// ActionEnterCode switches to code mode for the subtree.
	ActionEnterCode
	// ActionBreak seals the current paragraph.
	ActionBreak
	// ActionWhitespace appends the node's text only to a non-empty paragraph.
	ActionWhitespace
	// ActionExitCode switches a code region back to prose for the subtree.
	ActionExitCode
	// ActionSkip records nothing for the node but still visits its children.
	ActionSkip
)

// Classify maps a node kind and the current mode to an action.
func Classify(kind syntax.Kind, mode Mode) Action {
	if mode == ModeCode {
		if kind == syntax.KindMarkup {
			return ActionExitCode
		}
		return ActionSkip
	}

	switch kind {
	case syntax.KindParbreak:
		return ActionBreak
	case syntax.KindRaw, syntax.KindEquation, syntax.KindFieldAccess, syntax.KindLink:
		return ActionPlaceholder
	case syntax.KindHash,
		syntax.KindLabel,
		syntax.KindModuleImport,
		syntax.KindModuleInclude,
		syntax.KindLineComment,
		syntax.KindBlockComment,
		syntax.KindIdent,
		syntax.KindUnderscore,
		syntax.KindStar,
		syntax.KindMarker:
		return ActionIgnore
	case syntax.KindFuncCall, syntax.KindShowRule, syntax.KindSetRule, syntax.KindLetBinding:
		return ActionEnterCode
	case syntax.KindSpace:
		return ActionWhitespace
	default:
		return ActionText
	}
}

// Placeholder is the synthetic text standing in for a replaced node.
func Placeholder(kind syntax.Kind) string {
	return "`" + kind.String() + "`"
}

package syntax

// Kind tags a node with the construct it was parsed from.
// Front ends map their grammar-specific node types onto this set.
type Kind int

const (
	KindUnknown Kind = iota

	// Prose regions and leaves.
	KindMarkup
	KindText
	KindSpace
	KindParbreak
	KindStrong
	KindEmph
	KindHeading
	KindListItem

	// Constructs replaced by a placeholder.
	KindRaw
	KindEquation
	KindFieldAccess
	KindLink

	// Syntax that never contributes text.
	KindHash
	KindLabel
	KindModuleImport
	KindModuleInclude
	KindLineComment
	KindBlockComment
	KindIdent
	KindUnderscore
	KindStar
	KindMarker

	// Code regions.
	KindFuncCall
	KindShowRule
	KindSetRule
	KindLetBinding

	// Generic containers such as elements, sections and tables.
	KindContainer
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindMarkup:        "markup",
	KindText:          "text",
	KindSpace:         "space",
	KindParbreak:      "parbreak",
	KindStrong:        "strong",
	KindEmph:          "emph",
	KindHeading:       "heading",
	KindListItem:      "list item",
	KindRaw:           "raw",
	KindEquation:      "equation",
	KindFieldAccess:   "field access",
	KindLink:          "link",
	KindHash:          "hash",
	KindLabel:         "label",
	KindModuleImport:  "module import",
	KindModuleInclude: "module include",
	KindLineComment:   "line comment",
	KindBlockComment:  "block comment",
	KindIdent:         "identifier",
	KindUnderscore:    "underscore",
	KindStar:          "star",
	KindMarker:        "marker",
	KindFuncCall:      "function call",
	KindShowRule:      "show rule",
	KindSetRule:       "set rule",
	KindLetBinding:    "let binding",
	KindContainer:     "container",
}

// String returns the human readable kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

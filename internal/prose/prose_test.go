package prose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosecheck/internal/syntax"
)

// treeBuilder hands out consecutive spans so test trees look like they
// were parsed from one source.
type treeBuilder struct {
	offset int
}

func (b *treeBuilder) leaf(kind syntax.Kind, text string) *syntax.Node {
	span := syntax.Span{Start: b.offset, End: b.offset + len(text)}
	b.offset += len(text)
	return syntax.Leaf(kind, text, span)
}

func (b *treeBuilder) text(s string) *syntax.Node  { return b.leaf(syntax.KindText, s) }
func (b *treeBuilder) space(s string) *syntax.Node { return b.leaf(syntax.KindSpace, s) }
func (b *treeBuilder) parbreak() *syntax.Node      { return b.leaf(syntax.KindParbreak, "\n\n") }

func inner(kind syntax.Kind, children ...*syntax.Node) *syntax.Node {
	span := syntax.Span{Start: 0, End: 0}
	if len(children) > 0 {
		span = syntax.Span{Start: children[0].Span().Start, End: children[len(children)-1].Span().End}
	}
	return syntax.Inner(kind, span, children...)
}

func paragraphTexts(paragraphs []Paragraph) []string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		text, _ := p.Text()
		out = append(out, text)
	}
	return out
}

func TestClassify(t *testing.T) {
	t.Run("Code mode only reacts to markup", func(t *testing.T) {
		assert.Equal(t, ActionExitCode, Classify(syntax.KindMarkup, ModeCode))
		assert.Equal(t, ActionSkip, Classify(syntax.KindText, ModeCode))
		assert.Equal(t, ActionSkip, Classify(syntax.KindParbreak, ModeCode))
		assert.Equal(t, ActionSkip, Classify(syntax.KindRaw, ModeCode))
	})

	t.Run("Prose mode table", func(t *testing.T) {
		cases := map[syntax.Kind]Action{
			syntax.KindParbreak:     ActionBreak,
			syntax.KindRaw:          ActionPlaceholder,
			syntax.KindEquation:     ActionPlaceholder,
			syntax.KindFieldAccess:  ActionPlaceholder,
			syntax.KindLink:         ActionPlaceholder,
			syntax.KindHash:         ActionIgnore,
			syntax.KindLabel:        ActionIgnore,
			syntax.KindModuleImport: ActionIgnore,
			syntax.KindLineComment:  ActionIgnore,
			syntax.KindBlockComment: ActionIgnore,
			syntax.KindIdent:        ActionIgnore,
			syntax.KindStar:         ActionIgnore,
			syntax.KindMarker:       ActionIgnore,
			syntax.KindFuncCall:     ActionEnterCode,
			syntax.KindShowRule:     ActionEnterCode,
			syntax.KindSetRule:      ActionEnterCode,
			syntax.KindLetBinding:   ActionEnterCode,
			syntax.KindSpace:        ActionWhitespace,
			syntax.KindText:         ActionText,
			syntax.KindMarkup:       ActionText,
			syntax.KindContainer:    ActionText,
		}
		for kind, want := range cases {
			assert.Equal(t, want, Classify(kind, ModeProse), kind.String())
		}
	})

	assert.Equal(t, "`raw`", Placeholder(syntax.KindRaw))
}

func TestSegment(t *testing.T) {
	t.Run("Tree without prose yields no paragraphs", func(t *testing.T) {
		b := &treeBuilder{}
		root := inner(syntax.KindMarkup,
			b.leaf(syntax.KindLineComment, "// note"),
			b.space("\n"),
			b.parbreak(),
			inner(syntax.KindFuncCall, b.leaf(syntax.KindIdent, "f"), b.text("arg")),
			b.leaf(syntax.KindRaw, "`x`"),
		)
		assert.Empty(t, Segment(root))
		assert.Empty(t, Segment(nil))
	})

	t.Run("Paragraph breaks seal paragraphs and never stand alone", func(t *testing.T) {
		b := &treeBuilder{}
		root := inner(syntax.KindMarkup,
			b.parbreak(),
			b.text("Hello"), b.space(" "), b.text("world."),
			b.parbreak(),
			b.parbreak(),
			b.text("Second."),
		)
		paragraphs := Segment(root)
		assert.Equal(t, []string{"Hello world.", "Second."}, paragraphTexts(paragraphs))
		for _, p := range paragraphs {
			for _, f := range p.Fragments {
				if !f.IsSynthesized() {
					assert.NotEqual(t, "\n\n", f.Text())
				}
			}
		}
	})

	t.Run("Leading whitespace is dropped", func(t *testing.T) {
		b := &treeBuilder{}
		root := inner(syntax.KindMarkup, b.space("  "), b.text("Text"), b.space(" "))
		assert.Equal(t, []string{"Text "}, paragraphTexts(Segment(root)))
	})

	t.Run("Placeholders keep context but never start a paragraph", func(t *testing.T) {
		b := &treeBuilder{}
		raw := b.leaf(syntax.KindRaw, "`code`")
		space := b.space(" ")
		text := b.text("runs")
		space2 := b.space(" ")
		eq := inner(syntax.KindEquation, b.text("x + y"))
		root := inner(syntax.KindMarkup, raw, space, text, space2, eq)

		paragraphs := Segment(root)
		require.Len(t, paragraphs, 1)
		text0, contributions := paragraphs[0].Text()
		assert.Equal(t, "runs `equation`", text0)
		require.Len(t, contributions, 3)
		assert.Equal(t, eq.Span(), contributions[2].Span)
		assert.True(t, paragraphs[0].Fragments[2].IsSynthesized())
	})

	t.Run("Code mode ignores everything except markup", func(t *testing.T) {
		b := &treeBuilder{}
		call := inner(syntax.KindFuncCall,
			b.leaf(syntax.KindIdent, "link"),
			b.text("(\"https://example.com\")"),
			inner(syntax.KindContainer,
				inner(syntax.KindMarkup, b.text("the"), b.space(" "), b.text("site")),
			),
		)
		root := inner(syntax.KindMarkup, b.text("See"), b.space(" "), call, b.text("."))

		assert.Equal(t, []string{"See the site."}, paragraphTexts(Segment(root)))
	})

	t.Run("Code mode is scoped to its subtree", func(t *testing.T) {
		b := &treeBuilder{}
		root := inner(syntax.KindMarkup,
			inner(syntax.KindLetBinding, b.text("x = 1")),
			b.text("after"),
		)
		assert.Equal(t, []string{"after"}, paragraphTexts(Segment(root)))
	})

	t.Run("Inner nodes with empty text are still visited", func(t *testing.T) {
		b := &treeBuilder{}
		root := inner(syntax.KindMarkup,
			inner(syntax.KindStrong, b.leaf(syntax.KindStar, "*"), b.text("bold"), b.leaf(syntax.KindStar, "*")),
			b.space(""),
		)
		assert.Equal(t, []string{"bold"}, paragraphTexts(Segment(root)))
	})

	t.Run("Breaks nested in children seal paragraphs for the parent", func(t *testing.T) {
		b := &treeBuilder{}
		root := inner(syntax.KindMarkup,
			inner(syntax.KindListItem, b.parbreak(), b.text("one")),
			inner(syntax.KindListItem, b.parbreak(), b.text("two")),
		)
		assert.Equal(t, []string{"one", "two"}, paragraphTexts(Segment(root)))
	})
}

func TestParagraph_Text(t *testing.T) {
	b := &treeBuilder{}
	p := Paragraph{}
	p.Append(Borrowed(b.text("Teh")), Borrowed(b.space(" ")), Borrowed(b.text("cät")))
	p.Append(Synthesized("`raw`", syntax.Span{Start: 100, End: 120}))
	p.Append(Borrowed(b.text("")))
	p.Append(Synthesized(paragraphSeparator, syntax.Detached()))

	text, contributions := p.Text()

	t.Run("Lengths sum to the text length", func(t *testing.T) {
		total := 0
		for _, c := range contributions {
			total += c.Length
		}
		assert.Equal(t, len(text), total)
		assert.Equal(t, len(text), p.Len())
	})

	t.Run("Contributions are contiguous from zero", func(t *testing.T) {
		next := 0
		for _, c := range contributions {
			assert.Equal(t, next, c.Offset)
			next = c.Offset + c.Length
		}
	})

	t.Run("Text is idempotent", func(t *testing.T) {
		again, againContributions := p.Text()
		assert.Equal(t, text, again)
		assert.Equal(t, contributions, againContributions)
	})

	t.Run("Empty contributions contain nothing", func(t *testing.T) {
		empty := contributions[4]
		assert.Equal(t, 0, empty.Length)
		assert.False(t, empty.Contains(empty.Offset))
		assert.True(t, contributions[0].Contains(0))
		assert.False(t, contributions[0].Contains(3))
	})

	assert.Equal(t, "Teh cät`raw`\r\n\r\n", text)
}

func shortParagraph(b *treeBuilder, length int) Paragraph {
	p := Paragraph{}
	p.Append(Borrowed(b.text(strings.Repeat("a", length))))
	return p
}

func TestMergeShort(t *testing.T) {
	t.Run("Long paragraphs pass through unchanged", func(t *testing.T) {
		b := &treeBuilder{}
		in := []Paragraph{shortParagraph(b, 12), shortParagraph(b, 10), shortParagraph(b, 30)}
		out := MergeShort(in, 10)
		assert.Equal(t, in, out)
	})

	t.Run("Short paragraphs absorb followers until long enough", func(t *testing.T) {
		b := &treeBuilder{}
		in := []Paragraph{shortParagraph(b, 3), shortParagraph(b, 4), shortParagraph(b, 20)}
		out := MergeShort(in, 10)

		require.Len(t, out, 2)
		assert.Equal(t, []string{"aaa\r\n\r\naaaa", strings.Repeat("a", 20)}, paragraphTexts(out))
	})

	t.Run("Accumulation continues while still short", func(t *testing.T) {
		b := &treeBuilder{}
		in := []Paragraph{shortParagraph(b, 1), shortParagraph(b, 1), shortParagraph(b, 1), shortParagraph(b, 5)}
		out := MergeShort(in, 20)

		require.Len(t, out, 1)
		text, contributions := out[0].Text()
		assert.Equal(t, "a\r\n\r\na\r\n\r\na\r\n\r\naaaaa", text)
		assert.True(t, contributions[1].Span.IsDetached())
	})

	t.Run("A trailing short paragraph is never merged backward", func(t *testing.T) {
		b := &treeBuilder{}
		in := []Paragraph{shortParagraph(b, 30), shortParagraph(b, 2)}
		out := MergeShort(in, 10)
		assert.Equal(t, []string{strings.Repeat("a", 30), "aa"}, paragraphTexts(out))
	})

	t.Run("Input paragraphs are not modified", func(t *testing.T) {
		b := &treeBuilder{}
		in := []Paragraph{shortParagraph(b, 2), shortParagraph(b, 2)}
		_ = MergeShort(in, 10)
		assert.Len(t, in[0].Fragments, 1)
	})

	assert.Empty(t, MergeShort(nil, MinParagraphLength))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 3, CountWords("one  two\tthree\n"))
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords(" \n\t "))
	assert.Equal(t, 3, CountWords("  leading and trailing  "))
	assert.Equal(t, 1, CountWords("word"))
}

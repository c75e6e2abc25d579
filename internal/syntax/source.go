package syntax

import (
	"sort"
	"unicode/utf8"
)

// Source is the text of a parsed document plus a line start index.
// Content is kept verbatim so byte offsets match the file on disk.
type Source struct {
	path       string
	text       string
	lineStarts []int
}

// NewSource indexes the line starts of content. \n, \r\n and a lone \r
// all terminate a line.
func NewSource(path string, content []byte) *Source {
	text := string(content)
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &Source{path: path, text: text, lineStarts: starts}
}

func (s *Source) Path() string   { return s.path }
func (s *Source) Text() string   { return s.text }
func (s *Source) Len() int       { return len(s.text) }
func (s *Source) LineCount() int { return len(s.lineStarts) }

// Range resolves span to a byte range inside the source.
func (s *Source) Range(span Span) (start, end int, ok bool) {
	if span.IsDetached() || span.End > len(s.text) {
		return 0, 0, false
	}
	return span.Start, span.End, true
}

// Slice returns the text covered by span.
func (s *Source) Slice(span Span) (string, bool) {
	start, end, ok := s.Range(span)
	if !ok {
		return "", false
	}
	return s.text[start:end], true
}

// ByteToLine returns the 0-based line containing the byte offset.
// The offset one past the end of the text is valid.
func (s *Source) ByteToLine(offset int) (int, bool) {
	if offset < 0 || offset > len(s.text) {
		return 0, false
	}
	i := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset })
	return i - 1, true
}

// ByteToColumn returns the 0-based column of the byte offset, counted in
// characters from the start of its line. Offsets inside a multi-byte
// character have no column.
func (s *Source) ByteToColumn(offset int) (int, bool) {
	line, ok := s.ByteToLine(offset)
	if !ok {
		return 0, false
	}
	if offset < len(s.text) && !utf8.RuneStart(s.text[offset]) {
		return 0, false
	}
	return utf8.RuneCountInString(s.text[s.lineStarts[line]:offset]), true
}

// LineToByte returns the offset of the first byte of the 0-based line.
func (s *Source) LineToByte(line int) (int, bool) {
	if line < 0 || line >= len(s.lineStarts) {
		return 0, false
	}
	return s.lineStarts[line], true
}

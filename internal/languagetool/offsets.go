package languagetool

import "unicode/utf16"

// offsetIndex translates LanguageTool offsets, which count UTF-16 code
// units, into byte offsets of the submitted text.
type offsetIndex struct {
	// units[i] is the byte offset of code unit i, or -1 for the second half
	// of a surrogate pair. The final entry is the text length.
	units []int
}

func newOffsetIndex(text string) offsetIndex {
	units := make([]int, 0, len(text)+1)
	for i, r := range text {
		units = append(units, i)
		if utf16.RuneLen(r) == 2 {
			units = append(units, -1)
		}
	}
	units = append(units, len(text))
	return offsetIndex{units: units}
}

func (x offsetIndex) byteOffset(unit int) (int, bool) {
	if unit < 0 || unit >= len(x.units) {
		return 0, false
	}
	b := x.units[unit]
	if b < 0 {
		return 0, false
	}
	return b, true
}

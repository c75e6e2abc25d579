package prose

import "unicode"

// CountWords naively counts whitespace separated words.
func CountWords(text string) int {
	count := 0
	inWord := false

	for _, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				inWord = false
				count++
			}
			continue
		}
		inWord = true
	}

	if inWord {
		count++
	}
	return count
}

package report

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"prosecheck/internal/checker"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Fingerprint identifies a problem independently of where it sits in the
// file, so that a problem keeps its identity when lines above it change.
func Fingerprint(path string, p checker.Problem) string {
	fingerprint := strings.Join([]string{
		canonicalize(path),
		canonicalize(p.RuleCategory),
		canonicalize(p.RuleID),
		canonicalize(p.MatchString),
		canonicalize(p.Context),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:8])
}

func canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return whitespaceRe.ReplaceAllString(s, " ")
}

package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTerm prepares a glossary term for storage and comparison:
//   - applies Unicode NFC so that composed and decomposed kana compare equal
//   - trims leading/trailing whitespace
//   - compresses runs of ASCII spaces into one
//
// Case is preserved: glossary terms are proper nouns.
func NormalizeTerm(text string) string {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

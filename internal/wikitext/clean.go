package wikitext

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	wikiLinkRe = regexp.MustCompile(`\[\[([^|\]]*\|)?([^\]]*)\]\]`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Clean turns a raw parameter value into plain text:
// [[target|label]] becomes label, [[target]] becomes target, tags are
// removed, whitespace runs collapse to one space and the result is trimmed.
//
// Clean is idempotent. Removing one construct can expose another
// (e.g. "[[[[a]]]]"), so rewriting repeats until the text stops changing;
// every pass that changes anything makes the text shorter.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	for {
		next := wikiLinkRe.ReplaceAllString(s, "$2")
		next = htmlTagRe.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}

	s = spaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

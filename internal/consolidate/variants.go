package consolidate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jinzhu/inflection"

	"github.com/heartmarshall/termbridge/internal/domain"
)

var (
	// "[Tag] Fire Blade" -> "Fire Blade"
	tagPrefixRe = regexp.MustCompile(`^\[.*?\]\s*`)
	// "Weapon: Fire Blade" / "武器：火炎剣" -> "Fire Blade" / "火炎剣"
	categoryPrefixRe = regexp.MustCompile(`^.+?[:：]\s*`)
)

// pluralVariant pairs the plural of a short source term with the unchanged
// target. ok is false when the source has more than maxWords words or has
// no distinct plural form.
func pluralVariant(e domain.GlossaryEntry, maxWords int) (domain.GlossaryEntry, bool) {
	if !e.Complete() {
		return domain.GlossaryEntry{}, false
	}
	if len(strings.Fields(e.Source)) > maxWords {
		return domain.GlossaryEntry{}, false
	}

	plural := strings.TrimSpace(inflection.Plural(e.Source))
	if plural == "" || plural == e.Source {
		return domain.GlossaryEntry{}, false
	}
	return domain.GlossaryEntry{Source: plural, Target: e.Target}, true
}

// strippedVariant removes a leading bracketed tag and then a leading
// colon-delimited category from both terms. ok is false when nothing was
// removed, or when the stripped source is a single rune or the stripped
// target is empty.
func strippedVariant(e domain.GlossaryEntry) (domain.GlossaryEntry, bool) {
	src := stripPrefixes(e.Source)
	tgt := stripPrefixes(e.Target)

	if src == e.Source && tgt == e.Target {
		return domain.GlossaryEntry{}, false
	}
	if utf8.RuneCountInString(src) <= 1 || tgt == "" {
		return domain.GlossaryEntry{}, false
	}
	return domain.GlossaryEntry{Source: src, Target: tgt}, true
}

func stripPrefixes(s string) string {
	s = tagPrefixRe.ReplaceAllString(s, "")
	s = categoryPrefixRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

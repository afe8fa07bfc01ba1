package domain

// GlossaryEntry is one bilingual term pair. Identity is the ordered pair
// itself: two entries with equal Source and Target are duplicates
// regardless of where they were extracted from.
type GlossaryEntry struct {
	Source string
	Target string
}

// NewGlossaryEntry builds an entry from raw terms, normalizing both.
func NewGlossaryEntry(source, target string) GlossaryEntry {
	return GlossaryEntry{
		Source: NormalizeTerm(source),
		Target: NormalizeTerm(target),
	}
}

// Complete reports whether both terms are non-empty.
func (e GlossaryEntry) Complete() bool {
	return e.Source != "" && e.Target != ""
}

// TextPair is a pair of parallel free-form texts (e.g. two locale renderings
// of one description) from which glossary terms can be extracted.
type TextPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

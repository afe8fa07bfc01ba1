// Package align pairs content items extracted from two locale renderings of
// the same page.
//
// Titled items are joined on their structural key; there is no positional
// fallback for them. Description items have no reliable key and are paired
// positionally, which is only safe because both renderings list them in the
// same order.
package align

import (
	"github.com/heartmarshall/termbridge/internal/domain"
)

// Pair is one matched item in both locales.
type Pair struct {
	Source domain.ContentItem
	Target domain.ContentItem
}

// Entry returns the glossary entry for the pair's terms.
func (p Pair) Entry() domain.GlossaryEntry {
	return domain.NewGlossaryEntry(p.Source.Term(), p.Target.Term())
}

// Bodies returns the pair's bodies as parallel texts.
func (p Pair) Bodies() domain.TextPair {
	return domain.TextPair{Source: p.Source.Body, Target: p.Target.Body}
}

// Alignment is the outcome of aligning one page.
type Alignment struct {
	// Titled pairs, in target-locale order.
	Titled []Pair
	// Description pairs, in positional order.
	Descriptions []Pair

	// Keys present in only one locale. Never emitted as pairs.
	UnmatchedSource []domain.StructuralKey
	UnmatchedTarget []domain.StructuralKey

	// Description items left over after positional pairing.
	SourceExtra int
	TargetExtra int
}

// Pairs returns all pairs, titled first.
func (a Alignment) Pairs() []Pair {
	out := make([]Pair, 0, len(a.Titled)+len(a.Descriptions))
	out = append(out, a.Titled...)
	return append(out, a.Descriptions...)
}

// Entries returns the glossary entries of all pairs with both terms present.
func (a Alignment) Entries() []domain.GlossaryEntry {
	pairs := a.Pairs()
	out := make([]domain.GlossaryEntry, 0, len(pairs))
	for _, p := range pairs {
		if e := p.Entry(); e.Complete() {
			out = append(out, e)
		}
	}
	return out
}

// Complete reports whether every item found a counterpart.
func (a Alignment) Complete() bool {
	return len(a.UnmatchedSource) == 0 && len(a.UnmatchedTarget) == 0 &&
		a.SourceExtra == 0 && a.TargetExtra == 0
}

// Align pairs source-locale items with target-locale items.
func Align(source, target []domain.ContentItem) Alignment {
	srcTitled, srcDesc := split(source)
	tgtTitled, tgtDesc := split(target)

	var a Alignment
	a.Titled, a.UnmatchedSource, a.UnmatchedTarget = byKey(srcTitled, tgtTitled)
	a.Descriptions, a.SourceExtra, a.TargetExtra = byPosition(srcDesc, tgtDesc)
	return a
}

func split(items []domain.ContentItem) (titled, desc []domain.ContentItem) {
	for _, it := range items {
		switch it.Kind {
		case domain.KindTitled:
			titled = append(titled, it)
		case domain.KindDescription:
			desc = append(desc, it)
		}
	}
	return titled, desc
}

// keyed indexes items by key, keeping the first item for a repeated key.
type keyed struct {
	order []domain.StructuralKey
	items map[domain.StructuralKey]domain.ContentItem
}

func index(items []domain.ContentItem) keyed {
	k := keyed{items: make(map[domain.StructuralKey]domain.ContentItem, len(items))}
	for _, it := range items {
		if _, exists := k.items[it.Key]; exists {
			continue
		}
		k.items[it.Key] = it
		k.order = append(k.order, it.Key)
	}
	return k
}

func byKey(source, target []domain.ContentItem) (pairs []Pair, onlySource, onlyTarget []domain.StructuralKey) {
	src := index(source)
	tgt := index(target)

	for _, key := range tgt.order {
		s, ok := src.items[key]
		if !ok {
			onlyTarget = append(onlyTarget, key)
			continue
		}
		pairs = append(pairs, Pair{Source: s, Target: tgt.items[key]})
	}

	for _, key := range src.order {
		if _, ok := tgt.items[key]; !ok {
			onlySource = append(onlySource, key)
		}
	}

	return pairs, onlySource, onlyTarget
}

func byPosition(source, target []domain.ContentItem) (pairs []Pair, sourceExtra, targetExtra int) {
	n := min(len(source), len(target))
	for i := range n {
		pairs = append(pairs, Pair{Source: source[i], Target: target[i]})
	}
	return pairs, len(source) - n, len(target) - n
}

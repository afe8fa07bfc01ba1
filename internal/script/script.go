// Package script classifies text by the writing systems it contains.
package script

import (
	"fmt"
	"strings"
	"unicode"
)

// Set is a named group of Unicode ranges forming one writing system.
type Set struct {
	Name   string
	Ranges *unicode.RangeTable
}

// Japanese covers Hiragana, Katakana (including the prolonged sound mark)
// and CJK Unified Ideographs.
var Japanese = Set{
	Name: "japanese",
	Ranges: &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x3040, Hi: 0x309f, Stride: 1},
			{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
			{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
		},
	},
}

// Latin covers the ASCII letters.
var Latin = Set{
	Name: "latin",
	Ranges: &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 'A', Hi: 'Z', Stride: 1},
			{Lo: 'a', Hi: 'z', Stride: 1},
		},
		LatinOffset: 2,
	},
}

var known = map[string]Set{
	Japanese.Name: Japanese,
	Latin.Name:    Latin,
}

// Lookup returns a predefined set by name.
func Lookup(name string) (Set, error) {
	s, ok := known[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Set{}, fmt.Errorf("unknown script set %q", name)
	}
	return s, nil
}

// In reports whether text contains at least one rune of the set.
func (s Set) In(text string) bool {
	for _, r := range text {
		if unicode.Is(s.Ranges, r) {
			return true
		}
	}
	return false
}

// Mixed flags text that contains runes of both Target and Source. In a
// glossary, a target term containing source-script fragments usually carries
// leftover untranslated text.
type Mixed struct {
	Target Set
	Source Set
}

// Match reports whether text contains runes of both scripts.
func (m Mixed) Match(text string) bool {
	return m.Target.In(text) && m.Source.In(text)
}

func (m Mixed) String() string {
	return m.Target.Name + "+" + m.Source.Name
}

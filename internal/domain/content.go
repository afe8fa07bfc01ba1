package domain

import (
	"fmt"
	"strings"
)

// ItemKind distinguishes the two content categories of a detail page.
type ItemKind int

const (
	// KindDescription items carry no reliable structural key and are paired
	// positionally across locales.
	KindDescription ItemKind = iota + 1
	// KindTitled items are paired by StructuralKey.
	KindTitled
)

var itemKindNames = map[ItemKind]string{
	KindDescription: "description",
	KindTitled:      "titled",
}

func (k ItemKind) String() string {
	if name, ok := itemKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ItemKind) MarshalText() ([]byte, error) {
	name, ok := itemKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown item kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ItemKind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for kind, name := range itemKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown item kind %q", s)
}

// StructuralKey locates an item on a rendered page (section index × tab index).
// It is assumed identical between locale renderings of the same page.
type StructuralKey struct {
	Section int `json:"section"`
	Tab     int `json:"tab"`
}

func (k StructuralKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.Section, k.Tab)
}

// ContentItem is one extracted unit of a detail page in one locale.
type ContentItem struct {
	Kind  ItemKind      `json:"kind"`
	Key   StructuralKey `json:"key"`
	Title string        `json:"title"`
	Body  string        `json:"body"`
}

// Term returns the text used as a glossary term: the title, or the body
// when the item has no title.
func (c ContentItem) Term() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return strings.TrimSpace(c.Body)
}

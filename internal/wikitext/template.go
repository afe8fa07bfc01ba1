// Package wikitext extracts template invocations and their parameters from
// raw MediaWiki markup and cleans parameter values to plain text.
package wikitext

import (
	"errors"
	"regexp"
	"strings"

	"github.com/heartmarshall/termbridge/internal/domain"
)

// ErrUnterminated is the cause attached to an absent span whose braces never
// balance before the end of the text.
var ErrUnterminated = errors.New("unterminated template")

// TemplateSpan is a balanced template invocation inside a document.
// Raw == text[Start:End] and its brace depth returns to zero exactly at End.
type TemplateSpan struct {
	Start int
	End   int
	Raw   string
}

// Template locates invocations of one named template.
type Template struct {
	name string
	open *regexp.Regexp
}

// NewTemplate returns a Template matching `{{name|` or `{{name}`,
// case-insensitively, with optional whitespace around the name.
func NewTemplate(name string) *Template {
	pattern := `(?i)\{\{\s*` + regexp.QuoteMeta(strings.TrimSpace(name)) + `\s*[|}]`
	return &Template{
		name: name,
		open: regexp.MustCompile(pattern),
	}
}

// Name returns the template name as configured.
func (t *Template) Name() string {
	return t.name
}

// Extract returns the span of the first invocation of the template in text.
//
// Only the first occurrence is considered; later invocations of the same
// template in one document are not visited. When the name never occurs, or
// when the braces of the first occurrence never close, the result is a
// domain.ErrAbsent failure and the zero span.
func (t *Template) Extract(text string) (TemplateSpan, error) {
	loc := t.open.FindStringIndex(text)
	if loc == nil {
		return TemplateSpan{}, domain.Absent("template "+t.name, nil)
	}

	start := loc[0]
	end, ok := matchBraces(text, start)
	if !ok {
		return TemplateSpan{}, domain.Absent("template "+t.name, ErrUnterminated)
	}

	return TemplateSpan{Start: start, End: end, Raw: text[start:end]}, nil
}

// ExtractTemplate is a shorthand for NewTemplate(name).Extract(text).
// Callers scanning many documents should keep a *Template instead.
func ExtractTemplate(text, name string) (TemplateSpan, error) {
	return NewTemplate(name).Extract(text)
}

// matchBraces scans text from start, which must point at "{{", counting
// "{{" / "}}" pairs. It returns the offset just past the "}}" that brings the
// depth back to zero.
func matchBraces(text string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(text)-1; {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i += 2
		case text[i] == '}' && text[i+1] == '}':
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return 0, false
}

package wikitext

import "strings"

// ParamMap holds the named parameters of one template invocation.
// Keys are case-sensitive.
type ParamMap map[string]string

// Get returns the value for key and whether it was present.
func (m ParamMap) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// ParseParams parses the named parameters of a terminated template span.
func ParseParams(span TemplateSpan) ParamMap {
	return ParseParamsRaw(span.Raw)
}

// ParseParamsRaw parses `{{name|k1=v1|k2=v2}}`.
//
// The body is split on every "|" without regard to nested links or
// templates, so a value such as "[[a|b]]" is cut at its inner pipe.
// Segments without "=" (positional parameters, the template name) and
// segments with an empty key are dropped. The first occurrence of a key wins.
func ParseParamsRaw(raw string) ParamMap {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "{{")
	body = strings.TrimSuffix(body, "}}")

	segments := strings.Split(body, "|")
	params := make(ParamMap, len(segments))

	// segments[0] is the template name.
	for _, seg := range segments[1:] {
		key, value, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := params[key]; exists {
			continue
		}
		params[key] = strings.TrimSpace(value)
	}

	return params
}

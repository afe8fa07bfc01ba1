package wikitext

import (
	"maps"
	"testing"
)

func TestParseParams_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want ParamMap
	}{
		{
			name: "two params",
			text: "prefix {{T|k1=v1|k2=v2}} suffix",
			want: ParamMap{"k1": "v1", "k2": "v2"},
		},
		{
			name: "whitespace trimmed",
			text: "{{T\n| en = Fire Blade \n| ja = 火炎剣\n}}",
			want: ParamMap{"en": "Fire Blade", "ja": "火炎剣"},
		},
		{
			name: "value with equals sign",
			text: "{{T|note=a=b}}",
			want: ParamMap{"note": "a=b"},
		},
		{
			name: "positional segments dropped",
			text: "{{T|positional|k=v}}",
			want: ParamMap{"k": "v"},
		},
		{
			name: "first occurrence wins",
			text: "{{T|k=first|k=second}}",
			want: ParamMap{"k": "first"},
		},
		{
			name: "empty key dropped",
			text: "{{T|=orphan|k=v}}",
			want: ParamMap{"k": "v"},
		},
		{
			name: "keys are case-sensitive",
			text: "{{T|JA=upper|ja=lower}}",
			want: ParamMap{"JA": "upper", "ja": "lower"},
		},
		{
			name: "no params",
			text: "{{T}}",
			want: ParamMap{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			span, err := ExtractTemplate(tt.text, "T")
			if err != nil {
				t.Fatalf("ExtractTemplate: %v", err)
			}
			got := ParseParams(span)
			if !maps.Equal(got, tt.want) {
				t.Errorf("ParseParams(%q) = %v, want %v", span.Raw, got, tt.want)
			}
		})
	}
}

// A piped link inside a value is cut at its inner "|".
func TestParseParams_PipeInsideLink(t *testing.T) {
	t.Parallel()

	got := ParseParamsRaw("{{T|en=[[Fire Blade|Blade]]|ja=火炎剣}}")

	if v, _ := got.Get("en"); v != "[[Fire Blade" {
		t.Errorf("en = %q, want %q", v, "[[Fire Blade")
	}
	if v, _ := got.Get("ja"); v != "火炎剣" {
		t.Errorf("ja = %q, want %q", v, "火炎剣")
	}
}

func TestParamMap_Get(t *testing.T) {
	t.Parallel()

	m := ParamMap{"ja": ""}
	if v, ok := m.Get("ja"); !ok || v != "" {
		t.Errorf("Get(ja) = %q, %v", v, ok)
	}
	if _, ok := m.Get("en"); ok {
		t.Error("Get(en) reported present")
	}
}

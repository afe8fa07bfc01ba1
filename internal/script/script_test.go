package script

import "testing"

func TestSet_In(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  Set
		text string
		want bool
	}{
		{name: "hiragana", set: Japanese, text: "ねこ", want: true},
		{name: "katakana with long mark", set: Japanese, text: "ブレード", want: true},
		{name: "kanji", set: Japanese, text: "火炎剣", want: true},
		{name: "latin only", set: Japanese, text: "Fire Blade", want: false},
		{name: "fullwidth digits are not japanese", set: Japanese, text: "１２３", want: false},
		{name: "ascii letters", set: Latin, text: "abc XYZ", want: true},
		{name: "digits only", set: Latin, text: "123", want: false},
		{name: "accented letters excluded", set: Latin, text: "é", want: false},
		{name: "empty", set: Latin, text: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.set.In(tt.text); got != tt.want {
				t.Errorf("%s.In(%q) = %v, want %v", tt.set.Name, tt.text, got, tt.want)
			}
		})
	}
}

func TestMixed_Match(t *testing.T) {
	t.Parallel()

	m := Mixed{Target: Japanese, Source: Latin}

	tests := map[string]bool{
		"火炎剣":             false,
		"Fire Blade":      false,
		"火炎剣 (Fire Blade)": true,
		"HP回復":            true,
		"":                false,
		"１２３ねこ":           false,
	}
	for text, want := range tests {
		if got := m.Match(text); got != want {
			t.Errorf("Match(%q) = %v, want %v", text, got, want)
		}
	}

	if m.String() != "japanese+latin" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	s, err := Lookup(" Japanese ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.Name != "japanese" {
		t.Errorf("Name = %q", s.Name)
	}

	if _, err := Lookup("cyrillic"); err == nil {
		t.Error("expected error for unknown set")
	}
}

package sym

import (
	"testing"
	"unicode/utf8"
)

func TestGlyphsAreSingleRunes(t *testing.T) {
	for _, g := range Glyphs() {
		if utf8.RuneCountInString(g) != 1 {
			t.Errorf("glyph %q is %d runes, want 1", g, utf8.RuneCountInString(g))
		}
		r, _ := utf8.DecodeRuneInString(g)
		if !IsGlyph(r) {
			t.Errorf("IsGlyph(%q) = false", r)
		}
		if Describe(g) == "" {
			t.Errorf("Describe(%q) is empty", g)
		}
	}
}

func TestIsGlyphRejectsLettersAndOperators(t *testing.T) {
	for _, r := range []rune{'m', '_', '/', '.', '@', '(', ')', '^', '1', ' '} {
		if IsGlyph(r) {
			t.Errorf("IsGlyph(%q) = true, want false", r)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'", Prime},
		{`"`, DoublePrime},
		{Prime, Prime},
		{DoublePrime, DoublePrime},
		{Degree, Degree},
		{"m", "m"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOperatorsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, op := range Operators {
		if seen[op] {
			t.Errorf("operator %q listed twice", op)
		}
		seen[op] = true
	}
	if len(Operators) != 3 {
		t.Errorf("len(Operators) = %d, want 3", len(Operators))
	}
}

// Package sym defines the reserved glyphs and operator characters of the unit
// expression grammar. These are stable across the parser, the registry and the CLI.
package sym

// Glyph string constants: single-character unit symbols the lexer accepts
// without the usual letters-and-underscores rule.
const (
	Degree      = "°" // U+00B0, angular degree
	Prime       = "′" // U+2032, arc minute
	DoublePrime = "″" // U+2033, arc second

	// ASCII stand-ins accepted for keyboards without the typographic forms
	PrimeASCII       = "'"
	DoublePrimeASCII = `"`
)

// Operator characters of the grammar.
const (
	Per   = "/" // division
	Times = "." // multiplication
	At    = "@" // affine origin shift, as in "K @ 273.15"
	Open  = "("
	Close = ")"
	Power = "^" // exponent suffix on a unit symbol, as in "cm^2"
)

// entry binds a glyph to its canonical form and description.
type entry struct {
	glyph       string
	canonical   string
	description string
}

var registry = []entry{
	{Degree, Degree, "Degree of arc"},
	{Prime, Prime, "Minute of arc"},
	{PrimeASCII, Prime, "Minute of arc (ASCII apostrophe)"},
	{DoublePrime, DoublePrime, "Second of arc"},
	{DoublePrimeASCII, DoublePrime, "Second of arc (ASCII quote)"},
}

// Lookup tables built from the registry at init time.
var (
	glyphToCanonical map[string]string
	glyphRunes       map[rune]bool
	descriptions     map[string]string
)

func init() {
	glyphToCanonical = make(map[string]string, len(registry))
	glyphRunes = make(map[rune]bool, len(registry))
	descriptions = make(map[string]string, len(registry))
	for _, e := range registry {
		glyphToCanonical[e.glyph] = e.canonical
		descriptions[e.glyph] = e.description
		for _, r := range e.glyph {
			glyphRunes[r] = true
		}
	}
}

// IsGlyph reports whether r is one of the reserved single-character unit symbols.
func IsGlyph(r rune) bool {
	return glyphRunes[r]
}

// Canonical returns the typographic form of a glyph ("'" becomes "′").
// Strings that are not glyphs are returned unchanged.
func Canonical(glyph string) string {
	if c, ok := glyphToCanonical[glyph]; ok {
		return c
	}
	return glyph
}

// Describe returns a short description of a glyph, or "" for non-glyphs.
func Describe(glyph string) string {
	return descriptions[glyph]
}

// Glyphs returns every accepted glyph, in registry order.
func Glyphs() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.glyph)
	}
	return out
}

// Operators lists the binary operator characters in the order the grammar tries them.
var Operators = []string{Per, Times, At}

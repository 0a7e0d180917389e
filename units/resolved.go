package units

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/unitx/sym"
)

// ResolvedUnit is the flattened, canonical form of any unit expression: a value v in this
// unit equals v*Scale + Offset in the base units named by Dimension.
type ResolvedUnit struct {
	Dimension Dimension `json:"dimension"`
	Scale     float64   `json:"scale"`
	Offset    float64   `json:"offset"`
}

// Dimensionless returns the resolved form of a plain number.
func Dimensionless(scale float64) ResolvedUnit {
	return ResolvedUnit{Dimension: Dimension{}, Scale: scale}
}

// Equal compares dimension, scale and offset exactly.
func (u ResolvedUnit) Equal(o ResolvedUnit) bool {
	return u.Dimension.Equal(o.Dimension) && u.Scale == o.Scale && u.Offset == o.Offset
}

// Convertible reports whether values can be converted between u and o.
func (u ResolvedUnit) Convertible(o ResolvedUnit) bool {
	return u.Dimension.Equal(o.Dimension)
}

// ToBase converts v in u to the base units of u's dimension.
func (u ResolvedUnit) ToBase(v float64) float64 {
	return v*u.Scale + u.Offset
}

// Canonical renders u as an expression that parses and resolves back to u. Offset units
// are only expressible as "<sym> @ <offset>" over a single base symbol with scale 1;
// anything else returns ErrNotExpressible.
func (u ResolvedUnit) Canonical() (string, error) {
	if math.IsNaN(u.Scale) || math.IsInf(u.Scale, 0) || math.IsNaN(u.Offset) || math.IsInf(u.Offset, 0) {
		return "", ErrNotExpressible
	}
	for s, exp := range u.Dimension {
		if !writable(s, exp) {
			return "", ErrNotExpressible
		}
	}
	if u.Offset == 0 {
		return u.product(), nil
	}
	if u.Scale != 1 {
		return "", ErrNotExpressible
	}
	if u.Dimension.IsDimensionless() {
		return "1 @ " + FormatFloat(u.Offset), nil
	}
	if len(u.Dimension) == 1 {
		for s, exp := range u.Dimension {
			if exp == 1 {
				return s + " @ " + FormatFloat(u.Offset), nil
			}
		}
	}
	return "", ErrNotExpressible
}

// String returns the canonical form, or a descriptive rendering for offset units the
// grammar cannot express.
func (u ResolvedUnit) String() string {
	if s, err := u.Canonical(); err == nil {
		return s
	}
	return "(" + u.product() + ") @ " + FormatFloat(u.Offset)
}

// product renders scale and dimension, ignoring the offset
func (u ResolvedUnit) product() string {
	scale := FormatFloat(u.Scale)
	if u.Dimension.IsDimensionless() {
		return scale
	}

	num, den := u.Dimension.split()
	if u.Scale != 1 {
		num = append([]string{scale}, num...)
	}
	if len(den) == 0 {
		return strings.Join(num, " ")
	}
	if len(num) == 0 {
		num = []string{"1"}
	}
	return group(num) + "/" + group(den)
}

func group(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	return "(" + strings.Join(items, " ") + ")"
}

// writable reports whether the lexer reads s (with its exponent) back as one symbol token
func writable(s string, exp int) bool {
	if s == "" {
		return false
	}
	letters := true
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '_' {
			letters = false
			break
		}
	}
	if letters {
		return true
	}
	// a lone glyph such as "°" reads back, but cannot carry an exponent
	r, size := utf8.DecodeRuneInString(s)
	return abs(exp) == 1 && size == len(s) && sym.IsGlyph(r)
}

// FormatFloat renders f in the shortest form that round-trips through the number grammar,
// which has no '+' in exponents: 1e+06 is written 1e06.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	return strings.Replace(s, "e+", "e", 1)
}

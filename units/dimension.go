package units

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension is a multiset of base-unit symbols with signed exponents,
// e.g. {kg: 1, m: 1, s: -2} for force. Zero exponents are never stored and a nil or
// empty Dimension is dimensionless. Dimensions are treated as values: operations return
// new maps and never modify their receivers.
type Dimension map[string]int

// BaseDimension returns the dimension of a single base unit.
func BaseDimension(symbol string) Dimension {
	return Dimension{symbol: 1}
}

// IsDimensionless reports whether d has no base-unit references
func (d Dimension) IsDimensionless() bool {
	return len(d) == 0
}

// Mul returns d·o: exponents of shared symbols add.
func (d Dimension) Mul(o Dimension) Dimension {
	out := make(Dimension, len(d)+len(o))
	for s, e := range d {
		out[s] = e
	}
	for s, e := range o {
		out[s] += e
		if out[s] == 0 {
			delete(out, s)
		}
	}
	return out
}

// Div returns d/o: o's exponents are negated before combining.
func (d Dimension) Div(o Dimension) Dimension {
	return d.Mul(o.Pow(-1))
}

// Pow returns d with every exponent multiplied by n.
func (d Dimension) Pow(n int) Dimension {
	out := make(Dimension, len(d))
	if n == 0 {
		return out
	}
	for s, e := range d {
		out[s] = e * n
	}
	return out
}

// Equal reports whether both multisets hold the same symbols with the same exponents.
func (d Dimension) Equal(o Dimension) bool {
	if len(d) != len(o) {
		return false
	}
	for s, e := range d {
		if o[s] != e {
			return false
		}
	}
	return true
}

// Symbols returns the base symbols in sorted order
func (d Dimension) Symbols() []string {
	out := make([]string, 0, len(d))
	for s := range d {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// split separates positive and negative exponents, each as "sym" or "sym^n" in sorted order
func (d Dimension) split() (num, den []string) {
	for _, s := range d.Symbols() {
		e := d[s]
		term := s
		if abs(e) != 1 {
			term = fmt.Sprintf("%s^%d", s, abs(e))
		}
		if e > 0 {
			num = append(num, term)
		} else {
			den = append(den, term)
		}
	}
	return num, den
}

// String renders the dimension as "kg.m/s^2"; dimensionless renders as "1".
func (d Dimension) String() string {
	if d.IsDimensionless() {
		return "1"
	}
	num, den := d.split()
	out := strings.Join(num, ".")
	if out == "" {
		out = "1"
	}
	if len(den) > 0 {
		out += "/" + strings.Join(den, ".")
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

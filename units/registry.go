package units

import (
	"sort"

	"github.com/teranos/unitx/parser"
)

// Registry maps symbols, names and aliases to units, and prefix keys to prefixes.
// It is built once by Build and never modified afterwards, so it can be shared across
// goroutines without locking.
type Registry struct {
	units    []*Unit
	byKey    map[string]*Unit
	prefixes []*Prefix
	byPrefix map[string]*Prefix
	pkeys    []string // longest first
}

// Lookup returns the unit registered under symbol (a symbol, name or alias spelling).
// Prefixed forms such as "km" are not looked up here; use Resolve for those.
func (r *Registry) Lookup(symbol string) (*Unit, bool) {
	u, ok := r.byKey[symbol]
	return u, ok
}

// LookupPrefix returns the prefix registered under key (a symbol or the prefix name)
func (r *Registry) LookupPrefix(key string) (*Prefix, bool) {
	p, ok := r.byPrefix[key]
	return p, ok
}

// Units returns all units in definition order
func (r *Registry) Units() []*Unit {
	return append([]*Unit(nil), r.units...)
}

// Prefixes returns all prefixes in definition order
func (r *Registry) Prefixes() []*Prefix {
	return append([]*Prefix(nil), r.prefixes...)
}

// Keys returns every unit lookup key in sorted order
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of units
func (r *Registry) Len() int {
	return len(r.units)
}

// Resolve computes the resolved form of an already parsed expression.
func (r *Registry) Resolve(node parser.Node) (ResolvedUnit, error) {
	return NewResolver(r).Resolve(node)
}

// ResolveString parses and resolves expr.
func (r *Registry) ResolveString(expr string) (ResolvedUnit, error) {
	return NewResolver(r).ResolveString(expr)
}

// ConvertString converts value from the unit expression from to the unit expression to.
func (r *Registry) ConvertString(value float64, from, to string) (float64, error) {
	src, err := r.ResolveString(from)
	if err != nil {
		return 0, err
	}
	dst, err := r.ResolveString(to)
	if err != nil {
		return 0, err
	}
	return Convert(value, src, dst)
}

// Measure resolves expr and pairs it with value, labelled with expr.
func (r *Registry) Measure(value float64, expr string) (Measure, error) {
	u, err := r.ResolveString(expr)
	if err != nil {
		return Measure{}, err
	}
	return NewMeasure(value, u, expr), nil
}

// Records returns the unit and prefix records the registry was built from.
func (r *Registry) Records() ([]UnitRecord, []PrefixRecord) {
	units := make([]UnitRecord, len(r.units))
	for i, u := range r.units {
		units[i] = u.Record()
	}
	prefixes := make([]PrefixRecord, len(r.prefixes))
	for i, p := range r.prefixes {
		prefixes[i] = PrefixRecord{Name: p.Name, Value: p.Value, Symbols: append([]string(nil), p.Symbols...)}
	}
	return units, prefixes
}

func (r *Registry) unit(key string) (*Unit, bool, error) {
	u, ok := r.byKey[key]
	return u, ok, nil
}

func (r *Registry) prefix(key string) (*Prefix, bool) {
	return r.LookupPrefix(key)
}

func (r *Registry) prefixKeys() []string {
	return r.pkeys
}

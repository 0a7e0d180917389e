package units

// Prefix is a multiplicative modifier attached to the front of a unit symbol or name,
// e.g. "k"/"kilo" for 1e3.
type Prefix struct {
	Name    string
	Value   float64
	Symbols []string
}

// NewPrefix validates and builds a Prefix. At least one symbol is required and the
// value must be non-zero.
func NewPrefix(name string, value float64, symbols []string) (*Prefix, error) {
	var kept []string
	for _, s := range symbols {
		if s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, &InvalidPrefixError{Name: name, Reason: "at least one symbol must be defined"}
	}
	if value == 0 {
		return nil, &InvalidPrefixError{Name: name, Reason: "value must be non-zero"}
	}
	return &Prefix{Name: name, Value: value, Symbols: kept}, nil
}

// Symbol returns the primary symbol
func (p *Prefix) Symbol() string {
	return p.Symbols[0]
}

// keys returns every spelling the prefix may be written as: its symbols, then its name
func (p *Prefix) keys() []string {
	keys := append([]string{}, p.Symbols...)
	if p.Name != "" {
		keys = append(keys, p.Name)
	}
	return keys
}

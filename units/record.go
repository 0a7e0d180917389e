package units

// Derivation relates a derived unit to a reference unit: a value v in the derived unit
// equals v*Scale + Offset in the unit named by Symbol.
type Derivation struct {
	Symbol string  `json:"symbol" yaml:"symbol" toml:"symbol"`
	Scale  float64 `json:"scale" yaml:"scale" toml:"scale"`
	Offset float64 `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
}

// UnitRecord is the input form of a unit, as read from a definitions source.
// Exactly one of IsBase, DerivedFrom or Definition must be set.
type UnitRecord struct {
	Name        UnitName    `json:"name" yaml:"name" toml:"name"`
	Symbol      string      `json:"symbol,omitempty" yaml:"symbol,omitempty" toml:"symbol,omitempty"`
	Aliases     []UnitName  `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	IsBase      bool        `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	DerivedFrom *Derivation `json:"derived_from,omitempty" yaml:"derived_from,omitempty" toml:"derived_from,omitempty"`
	Definition  string      `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
}

// Label names the record in messages
func (r UnitRecord) Label() string {
	if r.Symbol != "" {
		return r.Symbol
	}
	return r.Name.Singular
}

// PrefixRecord is the input form of a prefix.
type PrefixRecord struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Value   float64  `json:"value" yaml:"value" toml:"value"`
	Symbols []string `json:"symbols" yaml:"symbols" toml:"symbols"`
}

package units

// Kind distinguishes base units from units defined in terms of others.
type Kind int

const (
	BaseKind Kind = iota
	DerivedKind
)

func (k Kind) String() string {
	if k == BaseKind {
		return "base"
	}
	return "derived"
}

// Unit is a registered unit. Base units define a dimension of their own; derived units
// reference another unit through Base/Scale/Offset or a Definition expression. Resolved is
// filled in by Build and holds the unit's flattened form.
type Unit struct {
	Kind    Kind
	Name    UnitName
	Symbol  string
	Aliases []UnitName

	// derived only
	Base       string
	Scale      float64
	Offset     float64
	Definition string

	Resolved ResolvedUnit
}

// IsBase reports whether u defines its own dimension
func (u *Unit) IsBase() bool {
	return u.Kind == BaseKind
}

// Label is how the unit is named in messages: its symbol, or its singular name.
func (u *Unit) Label() string {
	if u.Symbol != "" {
		return u.Symbol
	}
	return u.Name.Singular
}

// Keys returns every string the unit is registered under, without duplicates.
func (u *Unit) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(u.Symbol)
	for _, k := range u.Name.keys() {
		add(k)
	}
	for _, alias := range u.Aliases {
		for _, k := range alias.keys() {
			add(k)
		}
	}
	return keys
}

// Record converts u back into the record it was built from.
func (u *Unit) Record() UnitRecord {
	rec := UnitRecord{
		Name:       u.Name,
		Symbol:     u.Symbol,
		Aliases:    append([]UnitName(nil), u.Aliases...),
		IsBase:     u.IsBase(),
		Definition: u.Definition,
	}
	if u.Base != "" {
		rec.DerivedFrom = &Derivation{Symbol: u.Base, Scale: u.Scale, Offset: u.Offset}
	}
	return rec
}

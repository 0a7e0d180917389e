package units

// UnitName is the singular and plural spelling of a unit, e.g. meter/meters.
type UnitName struct {
	Singular string `json:"singular" yaml:"singular" toml:"singular"`
	Plural   string `json:"plural,omitempty" yaml:"plural,omitempty" toml:"plural,omitempty"`
}

// NewUnitName builds a UnitName; an empty plural defaults to singular + "s".
func NewUnitName(singular, plural string) UnitName {
	return UnitName{Singular: singular, Plural: plural}.normalized()
}

func (n UnitName) normalized() UnitName {
	if n.Plural == "" && n.Singular != "" {
		n.Plural = n.Singular + "s"
	}
	return n
}

// IsZero reports whether the name has no spelling at all
func (n UnitName) IsZero() bool {
	return n.Singular == "" && n.Plural == ""
}

// keys returns the distinct non-empty spellings
func (n UnitName) keys() []string {
	n = n.normalized()
	switch {
	case n.Singular == "":
		return nil
	case n.Plural == n.Singular:
		return []string{n.Singular}
	}
	return []string{n.Singular, n.Plural}
}

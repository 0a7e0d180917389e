package units

// Convert converts value from one unit to another:
//
//	((value*from.Scale + from.Offset) - to.Offset) / to.Scale
//
// The units must share a dimension.
func Convert(value float64, from, to ResolvedUnit) (float64, error) {
	if !from.Convertible(to) {
		return 0, &IncompatibleUnitsError{From: from.Dimension, To: to.Dimension}
	}
	if to.Scale == 0 {
		return 0, &DivideByZeroUnitError{Divisor: to.String()}
	}
	return (from.ToBase(value) - to.Offset) / to.Scale, nil
}

// Converter converts repeatedly between two fixed units as v*factor + shift.
// Results can differ from Convert in the last bits since the terms are folded up front.
type Converter struct {
	From ResolvedUnit
	To   ResolvedUnit

	factor float64
	shift  float64
}

// NewConverter checks that from and to are convertible and precomputes the conversion.
func NewConverter(from, to ResolvedUnit) (*Converter, error) {
	if !from.Convertible(to) {
		return nil, &IncompatibleUnitsError{From: from.Dimension, To: to.Dimension}
	}
	if to.Scale == 0 {
		return nil, &DivideByZeroUnitError{Divisor: to.String()}
	}
	return &Converter{
		From:   from,
		To:     to,
		factor: from.Scale / to.Scale,
		shift:  (from.Offset - to.Offset) / to.Scale,
	}, nil
}

// Apply converts v
func (c *Converter) Apply(v float64) float64 {
	return v*c.factor + c.shift
}

// ApplyAll converts every value in vs in place
func (c *Converter) ApplyAll(vs []float64) {
	for i, v := range vs {
		vs[i] = c.Apply(v)
	}
}

// Inverse returns the converter for the opposite direction.
func (c *Converter) Inverse() (*Converter, error) {
	return NewConverter(c.To, c.From)
}

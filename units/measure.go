package units

import "strings"

// Measure is a value paired with the unit it is expressed in. Label is the text used to
// display the unit; when empty the canonical form is used.
type Measure struct {
	Value float64      `json:"value"`
	Unit  ResolvedUnit `json:"unit"`
	Label string       `json:"label,omitempty"`
}

// NewMeasure pairs value with unit
func NewMeasure(value float64, unit ResolvedUnit, label string) Measure {
	return Measure{Value: value, Unit: unit, Label: label}
}

// ConvertTo returns the same quantity expressed in to.
func (m Measure) ConvertTo(to ResolvedUnit, label string) (Measure, error) {
	v, err := Convert(m.Value, m.Unit, to)
	if err != nil {
		return Measure{}, err
	}
	return Measure{Value: v, Unit: to, Label: label}, nil
}

// Scale returns the measure with its value multiplied by k
func (m Measure) Scale(k float64) Measure {
	m.Value *= k
	return m
}

// Base returns the value in the base units of the measure's dimension.
func (m Measure) Base() float64 {
	return m.Unit.ToBase(m.Value)
}

// UnitLabel is the unit part of String: the label, in parentheses when it contains
// operators, or "" for a dimensionless "1".
func (m Measure) UnitLabel() string {
	label := m.Label
	if label == "" {
		label = m.Unit.String()
	}
	if label == "1" {
		return ""
	}
	if strings.ContainsAny(label, " /.@") {
		label = "(" + label + ")"
	}
	return label
}

func (m Measure) String() string {
	label := m.UnitLabel()
	if label == "" {
		return FormatFloat(m.Value)
	}
	return FormatFloat(m.Value) + " " + label
}

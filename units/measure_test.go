package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	reg := newTestRegistry(t)

	speed, err := reg.Measure(36, "km/h")
	require.NoError(t, err)
	assert.Equal(t, "36 (km/h)", speed.String())
	assert.InDelta(t, 10, speed.Base(), 1e-12)

	converted, err := speed.ConvertTo(resolve(t, reg, "m/s"), "m/s")
	require.NoError(t, err)
	assert.InDelta(t, 10, converted.Value, 1e-12)
	assert.Equal(t, "m/s", converted.Label)

	doubled := speed.Scale(2)
	assert.Equal(t, 72.0, doubled.Value)
	assert.Equal(t, 36.0, speed.Value, "Scale returns a new measure")

	_, err = speed.ConvertTo(resolve(t, reg, "s"), "s")
	assert.True(t, IsConversionError(err))

	_, err = reg.Measure(1, "parsec")
	assert.True(t, IsResolveError(err))
}

func TestMeasure_StringWithoutLabel(t *testing.T) {
	assert.Equal(t, "3 m", NewMeasure(3, ResolvedUnit{Dimension: BaseDimension("m"), Scale: 1}, "").String())
	assert.Equal(t, "2.5", NewMeasure(2.5, Dimensionless(1), "").String())
	assert.Equal(t, "1 (60 s)", NewMeasure(1, ResolvedUnit{Dimension: BaseDimension("s"), Scale: 60}, "").String())
}

func TestMeasure_UnitLabel(t *testing.T) {
	m := ResolvedUnit{Dimension: BaseDimension("m"), Scale: 1}
	assert.Equal(t, "m", NewMeasure(3, m, "").UnitLabel())
	assert.Equal(t, "(m/s)", NewMeasure(3, m, "m/s").UnitLabel())
	assert.Equal(t, "", NewMeasure(3, Dimensionless(1), "").UnitLabel())
}

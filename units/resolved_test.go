package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/unitx/errors"
)

func TestResolvedUnit_Canonical(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		expr string
		want string
	}{
		{"m", "m"},
		{"60 s", "60 s"},
		{"60", "60"},
		{"N", "(kg m)/s^2"},
		{"kN", "(1000 kg m)/s^2"},
		{"m.kg/s^2", "(kg m)/s^2"},
		{"Hz", "1/s"},
		{"m/s", "m/s"},
		{"kg/(m s^2)", "kg/(m s^2)"},
		{"(1000 kg.m)/(s^2 A)", "(1000 kg m)/(A s^2)"},
		{"km^2", "1e06 m^2"},
		{"K @ 273.15", "K @ 273.15"},
		{"degC", "K @ 273.15"},
		{"1 @ 15", "1 @ 15"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			u, err := reg.ResolveString(tt.expr)
			require.NoError(t, err)

			got, err := u.Canonical()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestResolvedUnit_CanonicalRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)

	exprs := []string{
		"m", "60 s", "dm^3", "km/h", "N", "J", "eV", "kHz", "ft^2", "L",
		"(pi/180) rad", "′", "degC", "degC @ 10", "km @ 2", "mg/L",
		"(1000 kg.m)/(s^2 A)", "1/s", "42", "m^0",
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			u, err := reg.ResolveString(expr)
			require.NoError(t, err)

			canonical, err := u.Canonical()
			if errors.Is(err, ErrNotExpressible) {
				return
			}
			require.NoError(t, err)

			again, err := reg.ResolveString(canonical)
			require.NoError(t, err, canonical)
			assert.True(t, u.Equal(again), "%s -> %s -> %v", expr, canonical, again)
		})
	}
}

func TestResolvedUnit_NotExpressible(t *testing.T) {
	reg := newTestRegistry(t)

	degF, err := reg.ResolveString("degF")
	require.NoError(t, err)
	_, err = degF.Canonical()
	assert.True(t, errors.Is(err, ErrNotExpressible))
	assert.Contains(t, degF.String(), ") @ ")

	// a glyph base symbol cannot carry an exponent
	glyph := ResolvedUnit{Dimension: Dimension{"°": 2}, Scale: 1}
	_, err = glyph.Canonical()
	assert.True(t, errors.Is(err, ErrNotExpressible))

	_, err = ResolvedUnit{Dimension: Dimension{"°": 1}, Scale: 1}.Canonical()
	assert.NoError(t, err)
}

func TestResolvedUnit_ToBase(t *testing.T) {
	u := ResolvedUnit{Dimension: BaseDimension("K"), Scale: 1, Offset: 273.15}
	assert.InDelta(t, 293.15, u.ToBase(20), 1e-9)
	assert.True(t, u.Convertible(ResolvedUnit{Dimension: Dimension{"K": 1}, Scale: 2}))
	assert.False(t, u.Convertible(Dimensionless(1)))
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		1:       "1",
		1000:    "1000",
		0.5:     "0.5",
		1e6:     "1e06",
		1e21:    "1e21",
		1e-10:   "1e-10",
		-273.15: "-273.15",
		0.001:   "0.001",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
}

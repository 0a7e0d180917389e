package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimension_Arithmetic(t *testing.T) {
	force := Dimension{"kg": 1, "m": 1, "s": -2}
	length := BaseDimension("m")

	assert.Equal(t, Dimension{"kg": 1, "m": 2, "s": -2}, force.Mul(length))
	assert.Equal(t, Dimension{"kg": 1, "s": -2}, force.Div(length))
	assert.Equal(t, Dimension{"kg": 2, "m": 2, "s": -4}, force.Pow(2))
	assert.True(t, length.Div(length).IsDimensionless())
	assert.True(t, force.Pow(0).IsDimensionless())

	// operands are left untouched
	assert.Equal(t, Dimension{"kg": 1, "m": 1, "s": -2}, force)
	assert.Equal(t, Dimension{"m": 1}, length)
}

func TestDimension_Equal(t *testing.T) {
	assert.True(t, Dimension{"m": 1, "s": -1}.Equal(Dimension{"s": -1, "m": 1}))
	assert.True(t, Dimension(nil).Equal(Dimension{}))
	assert.False(t, Dimension{"m": 1}.Equal(Dimension{"m": 2}))
	assert.False(t, Dimension{"m": 1}.Equal(Dimension{"s": 1}))
	assert.False(t, Dimension{"m": 1}.Equal(Dimension{"m": 1, "s": 1}))
}

func TestDimension_String(t *testing.T) {
	tests := []struct {
		dim  Dimension
		want string
	}{
		{nil, "1"},
		{Dimension{"m": 1}, "m"},
		{Dimension{"s": -1}, "1/s"},
		{Dimension{"m": 1, "kg": 1, "s": -2}, "kg.m/s^2"},
		{Dimension{"A": -1, "m": 2, "s": -3, "kg": 1}, "kg.m^2/A.s^3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dim.String())
	}
	assert.Equal(t, []string{"A", "kg", "m", "s"}, Dimension{"A": -1, "m": 2, "s": -3, "kg": 1}.Symbols())
}

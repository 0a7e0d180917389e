package parser

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/unitx/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"coefficient and unit", "60 s", `Sequence[Literal(60), SymbolRef("s")]`},
		{"prefixed symbol with exponent", "dm^3", `SymbolRef("dm^3")`},
		{"affine origin", "K @ 273.15", `BinaryOp(At, SymbolRef("K"), Literal(273.15))`},
		{"product over power", "m.kg/s^2", `BinaryOp(Divide, BinaryOp(Multiply, SymbolRef("m"), SymbolRef("kg")), SymbolRef("s^2"))`},
		{"underscored names", "nautical_mile/hour", `BinaryOp(Divide, SymbolRef("nautical_mile"), SymbolRef("hour"))`},
		{"group then unit", "(pi/180) rad", `Sequence[Group(BinaryOp(Divide, SymbolRef("pi"), Literal(180))), SymbolRef("rad")]`},
		{"bare group", "(pi/180)", `Group(BinaryOp(Divide, SymbolRef("pi"), Literal(180)))`},
		{"symbol then number", "pi 180", `Sequence[SymbolRef("pi"), Literal(180)]`},
		{"number then symbol", "180 pi", `Sequence[Literal(180), SymbolRef("pi")]`},
		{"degree glyph", "°/60", `BinaryOp(Divide, SymbolRef("°"), Literal(60))`},
		{"ascii prime", "'/60", `BinaryOp(Divide, SymbolRef("'"), Literal(60))`},
		{"unicode double prime", "″", `SymbolRef("″")`},
		{"scientific coefficient", "1.60217733e-19 J", `Sequence[Literal(1.60217733e-19), SymbolRef("J")]`},
		{"coefficient and quotient", "2.58e-4 C/kg", `Sequence[Literal(2.58e-4), BinaryOp(Divide, SymbolRef("C"), SymbolRef("kg"))]`},
		{"long literal", "3.141592653589793238462643383279", `Literal(3.141592653589793238462643383279)`},
		{"quotient of groups", "(m/s)/(km/h)", `BinaryOp(Divide, Group(BinaryOp(Divide, SymbolRef("m"), SymbolRef("s"))), Group(BinaryOp(Divide, SymbolRef("km"), SymbolRef("h"))))`},
		{"chained division", "kg/m/s^2", `BinaryOp(Divide, BinaryOp(Divide, SymbolRef("kg"), SymbolRef("m")), SymbolRef("s^2"))`},
		{"adjacent without space", "1000kg", `Sequence[Literal(1000), SymbolRef("kg")]`},
		{"negative coefficient", "-40 m", `Sequence[Literal(-40), SymbolRef("m")]`},
		{"three operands", "100 fm^2 x", `Sequence[Literal(100), SymbolRef("fm^2"), SymbolRef("x")]`},
		{"sequence then group", "m kg (s)", `Sequence[SymbolRef("m"), SymbolRef("kg"), Group(SymbolRef("s"))]`},
		{"whitespace around operators", "  cm  /  s^2 ", `BinaryOp(Divide, SymbolRef("cm"), SymbolRef("s^2"))`},
		{"non-ascii letters", "µm", `SymbolRef("µm")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Dump(node))
		})
	}
}

// Parsing follows the grammar literally: the right side of a top-level '/' is a whole
// ordered_expression, so a trailing "c/d" groups as its own operation.
func TestParseDivisionGroupsLeftToRight(t *testing.T) {
	node, err := Parse("a/b/c/d")
	require.NoError(t, err)
	assert.Equal(t,
		`BinaryOp(Divide, BinaryOp(Divide, BinaryOp(Divide, SymbolRef("a"), SymbolRef("b")), SymbolRef("c")), SymbolRef("d"))`,
		Dump(node))

	tests := []struct {
		input string
		want  string
	}{
		{"a/b/c", `BinaryOp(Divide, BinaryOp(Divide, SymbolRef("a"), SymbolRef("b")), SymbolRef("c"))`},
		{"a/(b/c)", `BinaryOp(Divide, SymbolRef("a"), Group(BinaryOp(Divide, SymbolRef("b"), SymbolRef("c"))))`},
		{"a.b/c/d", `BinaryOp(Divide, BinaryOp(Divide, BinaryOp(Multiply, SymbolRef("a"), SymbolRef("b")), SymbolRef("c")), SymbolRef("d"))`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Dump(node))
		})
	}
}

func TestParseNumberLiterals(t *testing.T) {
	for _, input := range []string{"0 m", "0.0 m", "0e5 m", "1e-300 m", "4.9e-324 m"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.NoError(t, err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		kind         ErrorKind
		offset       int
		found        string
		wantExpected []string
	}{
		{"empty", "", ErrorKindSyntax, 0, "", []string{"number", "unit symbol"}},
		{"blank", "   ", ErrorKindSyntax, 0, "", []string{"number"}},
		{"dangling operator", "m/", ErrorKindSyntax, 2, "", []string{"'('", "number", "unit symbol"}},
		{"unclosed group", "(m", ErrorKindSyntax, 2, "", []string{"')'"}},
		{"stray close", "m )", ErrorKindSyntax, 2, ")", []string{"end of input"}},
		{"double operator", "m..kg", ErrorKindSyntax, 2, ".", []string{"number", "unit symbol"}},
		{"bad character", "m $", ErrorKindLexical, 2, "$", nil},
		{"lone minus", "- 5", ErrorKindLexical, 0, "-", nil},
		{"caret without digits", "m^x", ErrorKindLexical, 2, "x", []string{"digits"}},
		{"number overflow", "1e999 m", ErrorKindNumber, 0, "1e999", nil},
		{"number underflow", "1e-400 m", ErrorKindNumber, 0, "1e-400", nil},
		{"negative underflow", "-2.5e-999", ErrorKindNumber, 0, "-2.5e-999", nil},
		{"division chain past equation", "a/b/c/d/e", ErrorKindSyntax, 7, "/", []string{"end of input"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, node)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want *ParseError, got %T", err)
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.offset, perr.Offset)
			assert.Equal(t, tt.found, perr.Found)
			assert.Equal(t, tt.input, perr.Input)
			for _, want := range tt.wantExpected {
				assert.Contains(t, perr.Expected, want)
			}
			assert.True(t, errors.Is(err, ErrParse))
		})
	}
}

func TestParseNumericLiterals(t *testing.T) {
	literals := []string{
		"0", "7", "-7", "60", "1852", "0.01", "-0.5", "273.15",
		"1e-10", "1E10", "3.7e10", "2.58e-4", "1.6605402e-27", "1.495979e11",
		"1.60217733e-19", "-1.5e-3", "00012", "3.141592653589793238462643383279",
	}
	for _, text := range literals {
		t.Run(text, func(t *testing.T) {
			node, err := Parse(text)
			require.NoError(t, err)
			lit, ok := node.(*Literal)
			require.True(t, ok, "want *Literal, got %T", node)

			want, err := strconv.ParseFloat(text, 64)
			require.NoError(t, err)
			assert.Equal(t, want, lit.Value)
			assert.Equal(t, text, lit.Text)
		})
	}
}

func TestParseElectronVoltLiteralIsExact(t *testing.T) {
	node, err := Parse("1.60217733e-19 J")
	require.NoError(t, err)
	seq, ok := node.(*Sequence)
	require.True(t, ok)
	lit, ok := seq.Items[0].(*Literal)
	require.True(t, ok)
	assert.Equal(t, 1.60217733e-19, lit.Value)
}

func TestOrderedChoicePrefersEquationShape(t *testing.T) {
	// "m kg" matches expression inside the first alternative, so no Divide or Group wraps it
	node, err := Parse("m kg")
	require.NoError(t, err)
	_, ok := node.(*Sequence)
	assert.True(t, ok)

	// A leading group is taken by parenthetical before expression is tried
	node, err = Parse("(m) kg")
	require.NoError(t, err)
	assert.Equal(t, `Sequence[Group(SymbolRef("m")), SymbolRef("kg")]`, Dump(node))
}

func TestNodePositionsAndRendering(t *testing.T) {
	node, err := Parse("2 (km/h)")
	require.NoError(t, err)
	seq := node.(*Sequence)
	assert.Equal(t, 0, seq.Pos())
	assert.Equal(t, 2, seq.Items[1].Pos())
	assert.Equal(t, "2 (km/h)", node.String())

	at := MustParse("K @ 273.15")
	assert.Equal(t, "K @ 273.15", at.String())
	assert.Equal(t, 0, at.Pos())
}

func TestSymbolsAndWalk(t *testing.T) {
	node := MustParse("(1000 kg.m)/(s^2 A)")
	assert.Equal(t, []string{"kg", "m", "s^2", "A"}, Symbols(node))

	var literals int
	Walk(node, func(n Node) bool {
		if _, ok := n.(*Literal); ok {
			literals++
		}
		return true
	})
	assert.Equal(t, 1, literals)

	// Returning false prunes the subtree
	var visited int
	Walk(node, func(n Node) bool {
		visited++
		_, isGroup := n.(*Group)
		return !isGroup
	})
	assert.Less(t, visited, 8)
}

func TestToMap(t *testing.T) {
	m := ToMap(MustParse("K @ 273.15"))
	assert.Equal(t, "binary", m["type"])
	assert.Equal(t, "At", m["op"])
	right := m["right"].(map[string]interface{})
	assert.Equal(t, 273.15, right["value"])
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("m/") })
}

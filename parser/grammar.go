package parser

import (
	"math"
	"strconv"

	"github.com/teranos/unitx/errors"
)

// Parse parses a unit expression into a syntax tree.
//
// Grammar, with alternatives listed in the order they are tried:
//
//	operand            := unit_symbol | number
//	operation          := operand [ ('/' | '.' | '@') operand ]
//	expression         := operation { operation }
//	parenthetical      := '(' expression ')'
//	ordered_expression := parenthetical | expression | operand
//	equation           := ordered_expression [ ['/'] ordered_expression ]
//	sentence           := equation | ordered_expression | operand
//
// Choices are ordered: inside a rule the first alternative that matches is kept, and at the
// top level the first alternative that consumes the whole input wins. Nothing is
// disambiguated by longest match. On failure the error reports the farthest offset any
// alternative reached and everything that would have been accepted there.
func Parse(input string) (Node, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{input: input, tokens: tokens, farthest: -1}
	if tokens[0].Kind == TokenEOF {
		return nil, NewParseError(ErrorKindSyntax, "empty unit expression").
			WithInput(input).
			WithOffset(0).
			WithExpected(TokenNumber.String(), TokenSymbol.String(), TokenLParen.String())
	}

	sentence := []func(int) (Node, int, bool){
		p.equation,
		p.orderedExpression,
		p.operand,
	}
	for _, alternative := range sentence {
		node, next, ok := alternative(0)
		if p.err != nil {
			return nil, p.err
		}
		if ok && p.tokens[next].Kind == TokenEOF {
			return node, nil
		}
		if ok {
			p.expect(next, TokenEOF.String())
		}
	}

	return nil, p.failure()
}

// MustParse is like Parse but panics on error. Intended for tests and static tables.
func MustParse(input string) Node {
	node, err := Parse(input)
	if err != nil {
		panic(errors.Wrapf(err, "MustParse(%q)", input))
	}
	return node
}

// parser is a backtracking recursive-descent matcher over a token slice.
// Every rule takes a token index and returns the node, the index after it, and whether it matched.
type parser struct {
	input  string
	tokens []Token

	// farthest failure, for diagnostics
	farthest int
	expected []string

	// err is set for failures that are not grammar mismatches (number out of range)
	err error
}

// expect records that one of what was wanted at token index i
func (p *parser) expect(i int, what ...string) {
	offset := p.tokens[i].Pos
	if offset > p.farthest {
		p.farthest = offset
		p.expected = nil
	}
	if offset == p.farthest {
		p.expected = append(p.expected, what...)
	}
}

func (p *parser) failure() *ParseError {
	offset := p.farthest
	found := ""
	for _, tok := range p.tokens {
		if tok.Pos == offset && tok.Kind != TokenEOF {
			found = tok.Text
			break
		}
	}
	return NewParseError(ErrorKindSyntax, "invalid unit expression").
		WithInput(p.input).
		WithOffset(offset).
		WithFound(found).
		WithExpected(p.expected...)
}

// operand := unit_symbol | number
func (p *parser) operand(i int) (Node, int, bool) {
	tok := p.tokens[i]
	switch tok.Kind {
	case TokenSymbol:
		return &SymbolRef{Text: tok.Text, Offset: tok.Pos}, i + 1, true
	case TokenNumber:
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil || math.IsInf(value, 0) || (value == 0 && !zeroDigits(tok.Text)) {
			if p.err == nil {
				p.err = NewParseError(ErrorKindNumber, "number out of float64 range").
					WithInput(p.input).
					WithOffset(tok.Pos).
					WithFound(tok.Text)
			}
			return nil, i, false
		}
		return &Literal{Value: value, Text: tok.Text, Offset: tok.Pos}, i + 1, true
	}
	p.expect(i, TokenSymbol.String(), TokenNumber.String())
	return nil, i, false
}

// zeroDigits reports whether the mantissa of a number token has no non-zero digit,
// so "0.0e5" is zero while "1e-400" underflowed
func zeroDigits(text string) bool {
	for _, r := range text {
		switch {
		case r == 'e' || r == 'E':
			return true
		case r >= '1' && r <= '9':
			return false
		}
	}
	return true
}

// operation := operand [ ('/' | '.' | '@') operand ]
func (p *parser) operation(i int) (Node, int, bool) {
	left, j, ok := p.operand(i)
	if !ok {
		return nil, i, false
	}
	if !p.tokens[j].isOperator() {
		p.expect(j, TokenSlash.String(), TokenDot.String(), TokenAt.String())
		return left, j, true
	}
	right, k, ok := p.operand(j + 1)
	if !ok {
		// the optional tail does not match as a whole; the operation is just the operand
		return left, j, true
	}
	return &BinaryOp{Op: operatorFor(p.tokens[j].Kind), Left: left, Right: right}, k, true
}

// expression := operation { operation }
func (p *parser) expression(i int) (Node, int, bool) {
	first, j, ok := p.operation(i)
	if !ok {
		return nil, i, false
	}
	items := []Node{first}
	for {
		next, k, ok := p.operation(j)
		if !ok {
			break
		}
		items = append(items, next)
		j = k
	}
	if len(items) == 1 {
		return first, j, true
	}
	return &Sequence{Items: items}, j, true
}

// parenthetical := '(' expression ')'
func (p *parser) parenthetical(i int) (Node, int, bool) {
	open := p.tokens[i]
	if open.Kind != TokenLParen {
		p.expect(i, TokenLParen.String())
		return nil, i, false
	}
	inner, j, ok := p.expression(i + 1)
	if !ok {
		return nil, i, false
	}
	if p.tokens[j].Kind != TokenRParen {
		p.expect(j, TokenRParen.String())
		return nil, i, false
	}
	return &Group{Inner: inner, Offset: open.Pos}, j + 1, true
}

// ordered_expression := parenthetical | expression | operand
func (p *parser) orderedExpression(i int) (Node, int, bool) {
	alternatives := []func(int) (Node, int, bool){
		p.parenthetical,
		p.expression,
		p.operand,
	}
	for _, alternative := range alternatives {
		if node, j, ok := alternative(i); ok {
			return node, j, true
		}
		if p.err != nil {
			return nil, i, false
		}
	}
	return nil, i, false
}

// equation := ordered_expression [ ['/'] ordered_expression ]
//
// With the '/' the two sides form a Divide. Without it they are juxtaposed, which is how
// "(pi/180) rad" reads as a group followed by a unit.
func (p *parser) equation(i int) (Node, int, bool) {
	left, j, ok := p.orderedExpression(i)
	if !ok {
		return nil, i, false
	}

	if p.tokens[j].Kind == TokenSlash {
		if right, k, ok := p.orderedExpression(j + 1); ok {
			return divide(left, right), k, true
		}
		return left, j, true
	}
	p.expect(j, TokenSlash.String())

	right, k, ok := p.orderedExpression(j)
	if !ok {
		return left, j, true
	}
	return juxtapose(left, right), k, true
}

// divide builds left/right. An unparenthesised division on the right is folded in from
// the left, so a/b/c/d reads ((a/b)/c)/d.
func divide(left, right Node) Node {
	if op, ok := right.(*BinaryOp); ok && op.Op == Divide {
		return &BinaryOp{Op: Divide, Left: divide(left, op.Left), Right: op.Right}
	}
	return &BinaryOp{Op: Divide, Left: left, Right: right}
}

// juxtapose joins two adjacent operands into one Sequence, extending left if it is one
func juxtapose(left, right Node) Node {
	if seq, ok := left.(*Sequence); ok {
		items := make([]Node, 0, len(seq.Items)+1)
		items = append(items, seq.Items...)
		return &Sequence{Items: append(items, right)}
	}
	return &Sequence{Items: []Node{left, right}}
}

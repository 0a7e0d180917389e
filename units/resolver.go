package units

import (
	"strconv"
	"strings"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/parser"
)

// symbolTable is what the resolver looks symbols up in: a built Registry, or the
// registry under construction during Build.
type symbolTable interface {
	// unit returns the resolved unit registered under key. found reports whether the key
	// exists; err is only set while building, when the unit itself cannot be resolved.
	unit(key string) (u *Unit, found bool, err error)
	prefix(key string) (*Prefix, bool)
	// prefixKeys lists every prefix key, longest first
	prefixKeys() []string
}

// Resolver folds a syntax tree into a ResolvedUnit against a registry.
// It holds no state besides the registry and is safe for concurrent use.
type Resolver struct {
	table symbolTable
}

// NewResolver returns a resolver over r.
func NewResolver(r *Registry) *Resolver {
	return &Resolver{table: r}
}

// Resolve computes the resolved form of node. It never modifies the registry.
func (r *Resolver) Resolve(node parser.Node) (ResolvedUnit, error) {
	switch n := node.(type) {
	case *parser.Literal:
		return Dimensionless(n.Value), nil

	case *parser.SymbolRef:
		return r.resolveSymbol(n)

	case *parser.Group:
		return r.Resolve(n.Inner)

	case *parser.Sequence:
		acc, err := r.Resolve(n.Items[0])
		if err != nil {
			return ResolvedUnit{}, err
		}
		for _, item := range n.Items[1:] {
			next, err := r.Resolve(item)
			if err != nil {
				return ResolvedUnit{}, err
			}
			if acc, err = multiply(acc, next, item.Pos()); err != nil {
				return ResolvedUnit{}, err
			}
		}
		return acc, nil

	case *parser.BinaryOp:
		left, err := r.Resolve(n.Left)
		if err != nil {
			return ResolvedUnit{}, err
		}
		right, err := r.Resolve(n.Right)
		if err != nil {
			return ResolvedUnit{}, err
		}
		switch n.Op {
		case parser.Multiply:
			return multiply(left, right, n.Pos())
		case parser.Divide:
			return divide(left, right, n.Right)
		case parser.At:
			return anchor(left, right, n.Pos())
		}
		return ResolvedUnit{}, errors.AssertionFailedf("unhandled operator %v", n.Op)
	}
	return ResolvedUnit{}, errors.AssertionFailedf("unhandled node type %T", node)
}

// ResolveString parses and resolves expr.
func (r *Resolver) ResolveString(expr string) (ResolvedUnit, error) {
	node, err := parser.Parse(expr)
	if err != nil {
		return ResolvedUnit{}, err
	}
	return r.Resolve(node)
}

func (r *Resolver) resolveSymbol(ref *parser.SymbolRef) (ResolvedUnit, error) {
	name, exp, err := splitExponent(ref)
	if err != nil {
		return ResolvedUnit{}, err
	}

	unit, prefix, err := r.lookup(name)
	if err != nil {
		return ResolvedUnit{}, err
	}
	if unit == nil {
		return ResolvedUnit{}, &UnknownSymbolError{Symbol: name, Offset: ref.Offset}
	}

	base := unit.Resolved
	if exp != 1 && base.Offset != 0 {
		return ResolvedUnit{}, &IncompatibleCompositionError{
			Op:     "^",
			Reason: "offset unit " + unit.Label() + " cannot be raised to a power",
			Offset: ref.Offset,
		}
	}
	scale := base.Scale
	if prefix != nil {
		scale *= prefix.Value
	}
	return ResolvedUnit{
		Dimension: base.Dimension.Pow(exp),
		Scale:     pow(scale, exp),
		Offset:    base.Offset,
	}, nil
}

// lookup finds name as a unit key, or as the longest prefix key followed by a unit key
func (r *Resolver) lookup(name string) (*Unit, *Prefix, error) {
	if u, found, err := r.table.unit(name); found || err != nil {
		return u, nil, err
	}
	for _, key := range r.table.prefixKeys() {
		if len(key) >= len(name) || !strings.HasPrefix(name, key) {
			continue
		}
		u, found, err := r.table.unit(name[len(key):])
		if err != nil {
			return nil, nil, err
		}
		if found {
			p, _ := r.table.prefix(key)
			return u, p, nil
		}
	}
	return nil, nil, nil
}

// splitExponent separates "m^2" into "m" and 2
func splitExponent(ref *parser.SymbolRef) (string, int, error) {
	i := strings.IndexByte(ref.Text, '^')
	if i < 0 {
		return ref.Text, 1, nil
	}
	exp, err := strconv.Atoi(ref.Text[i+1:])
	if err != nil {
		return "", 0, &IncompatibleCompositionError{
			Op:     "^",
			Reason: "exponent " + ref.Text[i+1:] + " is out of range",
			Offset: ref.Offset + i + 1,
		}
	}
	return ref.Text[:i], exp, nil
}

func multiply(l, r ResolvedUnit, offset int) (ResolvedUnit, error) {
	if l.Offset != 0 || r.Offset != 0 {
		return ResolvedUnit{}, &IncompatibleCompositionError{
			Op:     parser.Multiply.Name(),
			Reason: "offset units cannot be multiplied",
			Offset: offset,
		}
	}
	return ResolvedUnit{
		Dimension: l.Dimension.Mul(r.Dimension),
		Scale:     l.Scale * r.Scale,
	}, nil
}

func divide(l, r ResolvedUnit, divisor parser.Node) (ResolvedUnit, error) {
	if l.Offset != 0 || r.Offset != 0 {
		return ResolvedUnit{}, &IncompatibleCompositionError{
			Op:     parser.Divide.Name(),
			Reason: "offset units cannot be divided",
			Offset: divisor.Pos(),
		}
	}
	if r.Scale == 0 {
		return ResolvedUnit{}, &DivideByZeroUnitError{Divisor: divisor.String(), Offset: divisor.Pos()}
	}
	return ResolvedUnit{
		Dimension: l.Dimension.Div(r.Dimension),
		Scale:     l.Scale / r.Scale,
	}, nil
}

// anchor shifts the origin of l by r, which must be a plain number
func anchor(l, r ResolvedUnit, offset int) (ResolvedUnit, error) {
	if !r.Dimension.IsDimensionless() || r.Offset != 0 {
		return ResolvedUnit{}, &IncompatibleCompositionError{
			Op:     parser.At.Name(),
			Reason: "the origin must be a dimensionless number",
			Offset: offset,
		}
	}
	return ResolvedUnit{
		Dimension: l.Dimension,
		Scale:     l.Scale,
		Offset:    l.Offset + r.Scale*l.Scale,
	}, nil
}

// pow raises x to a non-negative integer power by squaring
func pow(x float64, n int) float64 {
	result := 1.0
	for n > 0 {
		if n&1 == 1 {
			result *= x
		}
		x *= x
		n >>= 1
	}
	return result
}

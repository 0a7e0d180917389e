package parser

import (
	"fmt"
	"strings"
)

// Node is a unit expression syntax tree node.
// Leaves are *Literal and *SymbolRef; *BinaryOp, *Group and *Sequence combine them.
// The set of implementations is closed: only this package can add node types.
type Node interface {
	// Pos returns the byte offset of the node's first token
	Pos() int
	// String renders the node back to expression syntax
	String() string
	node()
}

// Operator is a binary operator of an operation.
type Operator int

const (
	Multiply Operator = iota // "."
	Divide                   // "/"
	At                       // "@", affine origin shift
)

// String returns the operator's source character
func (o Operator) String() string {
	switch o {
	case Multiply:
		return "."
	case Divide:
		return "/"
	case At:
		return "@"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Name returns the operator's name as used in tree dumps
func (o Operator) Name() string {
	switch o {
	case Multiply:
		return "Multiply"
	case Divide:
		return "Divide"
	case At:
		return "At"
	}
	return o.String()
}

func operatorFor(kind TokenKind) Operator {
	switch kind {
	case TokenDot:
		return Multiply
	case TokenAt:
		return At
	}
	return Divide
}

// Literal is a numeric literal. Text keeps the source spelling.
type Literal struct {
	Value  float64
	Text   string
	Offset int
}

// SymbolRef is an unresolved unit symbol, possibly carrying a prefix and a "^n" exponent.
type SymbolRef struct {
	Text   string
	Offset int
}

// BinaryOp combines two operands with ".", "/" or "@".
type BinaryOp struct {
	Op    Operator
	Left  Node
	Right Node
}

// Group is a parenthesized sub-expression.
type Group struct {
	Inner  Node
	Offset int
}

// Sequence is two or more juxtaposed operands, e.g. "1000 kg".
type Sequence struct {
	Items []Node
}

func (*Literal) node()   {}
func (*SymbolRef) node() {}
func (*BinaryOp) node()  {}
func (*Group) node()     {}
func (*Sequence) node()  {}

func (n *Literal) Pos() int   { return n.Offset }
func (n *SymbolRef) Pos() int { return n.Offset }
func (n *BinaryOp) Pos() int  { return n.Left.Pos() }
func (n *Group) Pos() int     { return n.Offset }
func (n *Sequence) Pos() int  { return n.Items[0].Pos() }

func (n *Literal) String() string   { return n.Text }
func (n *SymbolRef) String() string { return n.Text }
func (n *Group) String() string     { return "(" + n.Inner.String() + ")" }

func (n *BinaryOp) String() string {
	if n.Op == At {
		return n.Left.String() + " @ " + n.Right.String()
	}
	return n.Left.String() + n.Op.String() + n.Right.String()
}

func (n *Sequence) String() string {
	parts := make([]string, len(n.Items))
	for i, item := range n.Items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

// Dump renders the tree in constructor notation, e.g.
// Sequence[Literal(60), SymbolRef("s")].
func Dump(n Node) string {
	switch n := n.(type) {
	case *Literal:
		return fmt.Sprintf("Literal(%s)", n.Text)
	case *SymbolRef:
		return fmt.Sprintf("SymbolRef(%q)", n.Text)
	case *BinaryOp:
		return fmt.Sprintf("BinaryOp(%s, %s, %s)", n.Op.Name(), Dump(n.Left), Dump(n.Right))
	case *Group:
		return fmt.Sprintf("Group(%s)", Dump(n.Inner))
	case *Sequence:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = Dump(item)
		}
		return "Sequence[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", n)
}

// ToMap converts the tree into nested maps for JSON output.
func ToMap(n Node) map[string]interface{} {
	switch n := n.(type) {
	case *Literal:
		return map[string]interface{}{"type": "literal", "value": n.Value, "text": n.Text, "offset": n.Offset}
	case *SymbolRef:
		return map[string]interface{}{"type": "symbol", "text": n.Text, "offset": n.Offset}
	case *BinaryOp:
		return map[string]interface{}{
			"type":  "binary",
			"op":    n.Op.Name(),
			"left":  ToMap(n.Left),
			"right": ToMap(n.Right),
		}
	case *Group:
		return map[string]interface{}{"type": "group", "inner": ToMap(n.Inner), "offset": n.Offset}
	case *Sequence:
		items := make([]interface{}, len(n.Items))
		for i, item := range n.Items {
			items[i] = ToMap(item)
		}
		return map[string]interface{}{"type": "sequence", "items": items}
	}
	return nil
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Group:
		Walk(n.Inner, fn)
	case *Sequence:
		for _, item := range n.Items {
			Walk(item, fn)
		}
	}
}

// Symbols returns the text of every SymbolRef in n, in source order.
func Symbols(n Node) []string {
	var out []string
	Walk(n, func(n Node) bool {
		if ref, ok := n.(*SymbolRef); ok {
			out = append(out, ref.Text)
		}
		return true
	})
	return out
}

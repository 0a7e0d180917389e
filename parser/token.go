package parser

import "fmt"

// TokenKind classifies a lexer token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenSymbol
	TokenSlash
	TokenDot
	TokenAt
	TokenLParen
	TokenRParen
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:    "end of input",
	TokenNumber: "number",
	TokenSymbol: "unit symbol",
	TokenSlash:  "'/'",
	TokenDot:    "'.'",
	TokenAt:     "'@'",
	TokenLParen: "'('",
	TokenRParen: "')'",
}

// String returns the name used in "expected ..." diagnostics
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexeme of a unit expression.
// Pos is the byte offset of the token's first byte in the input.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d)", t.Kind, t.Text, t.Pos)
}

// isOperator reports whether the token is one of the binary operators of an operation
func (t Token) isOperator() bool {
	return t.Kind == TokenSlash || t.Kind == TokenDot || t.Kind == TokenAt
}

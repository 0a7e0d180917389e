package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/teranos/unitx/sym"
)

// Tokenize splits a unit expression into tokens terminated by a TokenEOF.
//
//	number      -?[0-9]+(\.[0-9]+)?([eE]-?[0-9]+)?
//	unit symbol [letters_]+(\^[0-9]+)?  or one of ° ′ ' ″ "
//	operators   / . @ ( )
//
// Whitespace separates tokens and is otherwise ignored.
func Tokenize(input string) ([]Token, error) {
	l := &lexer{input: input}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Kind == TokenEOF {
			return l.tokens, nil
		}
	}
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	switch {
	case r == '/':
		l.pos++
		return Token{Kind: TokenSlash, Text: "/", Pos: start}, nil
	case r == '.':
		l.pos++
		return Token{Kind: TokenDot, Text: ".", Pos: start}, nil
	case r == '@':
		l.pos++
		return Token{Kind: TokenAt, Text: "@", Pos: start}, nil
	case r == '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case r == ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case r < utf8.RuneSelf && isDigit(byte(r)), r == '-' && isDigit(l.peek(1)):
		return l.number(), nil
	case r == '_' || unicode.IsLetter(r):
		return l.symbol()
	case sym.IsGlyph(r):
		l.pos += size
		return Token{Kind: TokenSymbol, Text: l.input[start:l.pos], Pos: start}, nil
	}

	return Token{}, NewParseError(ErrorKindLexical, "unexpected character").
		WithInput(l.input).
		WithOffset(start).
		WithFound(string(r)).
		WithExpected(TokenNumber.String(), TokenSymbol.String(), "operator")
}

// number scans -?digits(.digits)?([eE]-?digits)?; the caller guarantees a leading digit
// (after an optional '-').
func (l *lexer) number() Token {
	start := l.pos
	if l.peek(0) == '-' {
		l.pos++
	}
	l.digits()
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.pos++
		l.digits()
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		if isDigit(l.peek(1)) {
			l.pos++
			l.digits()
		} else if l.peek(1) == '-' && isDigit(l.peek(2)) {
			l.pos += 2
			l.digits()
		}
	}
	return Token{Kind: TokenNumber, Text: l.input[start:l.pos], Pos: start}
}

func (l *lexer) symbol() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r != '_' && !unicode.IsLetter(r) {
			break
		}
		l.pos += size
	}
	if l.peek(0) == '^' {
		if !isDigit(l.peek(1)) {
			return Token{}, NewParseError(ErrorKindLexical, "exponent must be a non-negative integer").
				WithInput(l.input).
				WithOffset(l.pos + 1).
				WithFound(foundAt(l.input, l.pos+1)).
				WithExpected("digits")
		}
		l.pos++
		l.digits()
	}
	return Token{Kind: TokenSymbol, Text: l.input[start:l.pos], Pos: start}, nil
}

func (l *lexer) digits() {
	for isDigit(l.peek(0)) {
		l.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// foundAt returns the rune at offset for diagnostics, or "" at end of input
func foundAt(input string, offset int) string {
	if offset >= len(input) {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(input[offset:])
	return string(r)
}

package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/unitx/errors"
)

// ErrParse is the sentinel every *ParseError unwraps to.
var ErrParse = errors.New("parse error")

// ErrorContext indicates the environment where parser errors will be displayed
type ErrorContext string

const (
	// ErrorContextTerminal indicates errors will be displayed in terminal with ANSI colors
	ErrorContextTerminal ErrorContext = "terminal"
	// ErrorContextPlain indicates errors will be displayed without ANSI codes (logs, JSON output)
	ErrorContextPlain ErrorContext = "plain"
)

// ErrorKind categorizes parser errors for programmatic handling
type ErrorKind string

const (
	ErrorKindLexical ErrorKind = "lexical" // A character that starts no token
	ErrorKindSyntax  ErrorKind = "syntax"  // Tokens that match no grammar alternative
	ErrorKindNumber  ErrorKind = "number"  // A numeric literal outside float64 range
)

// ParseError reports the farthest offset the grammar reached and what it expected there.
type ParseError struct {
	Err      error     // Underlying error, ErrParse unless overridden
	Kind     ErrorKind // Error category
	Message  string    // Human-readable message
	Input    string    // Full expression text
	Offset   int       // Byte offset of the failure
	Found    string    // Text found at Offset, "" at end of input
	Expected []string  // What the active rules would have accepted at Offset
}

// Error implements the error interface using the plain format
func (e *ParseError) Error() string {
	return e.formatPlainError()
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextPlain {
		return e.formatPlainError()
	}
	return e.formatTerminalError()
}

func (e *ParseError) found() string {
	if e.Found == "" {
		return "end of input"
	}
	return fmt.Sprintf("%q", e.Found)
}

// formatPlainError creates a concise one-line error for logs and JSON output
func (e *ParseError) formatPlainError() string {
	msg := fmt.Sprintf("%s: %s at offset %d in %q", e.Message, e.found(), e.Offset, e.Input)
	if len(e.Expected) > 0 {
		msg += "; expected " + joinExpected(e.Expected)
	}
	return msg
}

// formatTerminalError creates a coloured diagnostic with a caret under the failure
func (e *ParseError) formatTerminalError() string {
	pos := PositionAt(e.Input, e.Offset)

	var b strings.Builder
	b.WriteString(pterm.Red(e.Message))
	b.WriteString(fmt.Sprintf(" (%s at column %d)", e.found(), pos.Character+1))
	b.WriteString("\n\n  ")
	b.WriteString(e.Input)
	b.WriteString("\n  ")
	b.WriteString(strings.Repeat(" ", pos.Character))
	b.WriteString(pterm.LightRed("^"))
	if len(e.Expected) > 0 {
		b.WriteString(fmt.Sprintf("\n\n%s %s", pterm.Green("Expected:"), joinExpected(e.Expected)))
	}
	return b.String()
}

// Unwrap for errors.Is/As compatibility
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Position returns the line/character position of the failure
func (e *ParseError) Position() Position {
	return PositionAt(e.Input, e.Offset)
}

// ToMap returns the error's fields for JSON output
func (e *ParseError) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"kind":     string(e.Kind),
		"message":  e.Message,
		"offset":   e.Offset,
		"found":    e.Found,
		"expected": e.Expected,
	}
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 0:
		return ""
	case 1:
		return expected[0]
	}
	return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
}

// Builder pattern for constructing ParseErrors

// NewParseError creates a new ParseError with the given kind and message
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{
		Err:     ErrParse,
		Kind:    kind,
		Message: message,
	}
}

// WithInput sets the expression text the error refers to
func (e *ParseError) WithInput(input string) *ParseError {
	e.Input = input
	return e
}

// WithOffset sets the byte offset where the error occurred
func (e *ParseError) WithOffset(offset int) *ParseError {
	e.Offset = offset
	return e
}

// WithFound sets the text found at the error offset
func (e *ParseError) WithFound(found string) *ParseError {
	e.Found = found
	return e
}

// WithExpected records what would have been accepted, sorted and de-duplicated
func (e *ParseError) WithExpected(expected ...string) *ParseError {
	seen := make(map[string]bool, len(e.Expected)+len(expected))
	merged := make([]string, 0, len(e.Expected)+len(expected))
	for _, x := range append(append([]string{}, e.Expected...), expected...) {
		if !seen[x] {
			seen[x] = true
			merged = append(merged, x)
		}
	}
	sort.Strings(merged)
	e.Expected = merged
	return e
}

// WithUnderlying sets the underlying error
func (e *ParseError) WithUnderlying(err error) *ParseError {
	e.Err = err
	return e
}

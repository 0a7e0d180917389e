package units

import (
	"fmt"
	"strings"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/parser"
)

// Sentinels for each error family. Every typed error below unwraps to one of them.
var (
	ErrResolve        = errors.New("cannot resolve unit expression")
	ErrConversion     = errors.New("cannot convert between units")
	ErrRegistryBuild  = errors.New("invalid unit registry")
	ErrNotExpressible = errors.New("unit has no canonical expression")
)

// UnknownSymbolError is returned when a symbol matches no unit, alias or prefixed unit.
type UnknownSymbolError struct {
	Symbol string
	Offset int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown unit symbol %q at offset %d", e.Symbol, e.Offset)
}

func (e *UnknownSymbolError) Unwrap() error { return ErrResolve }

// IncompatibleCompositionError is returned when an operator is applied to operands it
// cannot combine, such as multiplying an offset unit or anchoring a dimensional unit.
type IncompatibleCompositionError struct {
	Op     string
	Reason string
	Offset int
}

func (e *IncompatibleCompositionError) Error() string {
	return fmt.Sprintf("cannot compose units with %s at offset %d: %s", e.Op, e.Offset, e.Reason)
}

func (e *IncompatibleCompositionError) Unwrap() error { return ErrResolve }

// DivideByZeroUnitError is returned when a unit would be divided by a zero scale.
type DivideByZeroUnitError struct {
	Divisor string
	Offset  int
}

func (e *DivideByZeroUnitError) Error() string {
	return fmt.Sprintf("division by zero-scale unit %q at offset %d", e.Divisor, e.Offset)
}

func (e *DivideByZeroUnitError) Unwrap() error { return ErrResolve }

// IncompatibleUnitsError is returned when converting between different dimensions.
type IncompatibleUnitsError struct {
	From Dimension
	To   Dimension
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("incompatible units: %s cannot be converted to %s", e.From, e.To)
}

func (e *IncompatibleUnitsError) Unwrap() error { return ErrConversion }

// DuplicateSymbolError is returned when two records claim the same lookup key.
type DuplicateSymbolError struct {
	Symbol string
	First  string
	Second string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q is defined by both %s and %s", e.Symbol, e.First, e.Second)
}

func (e *DuplicateSymbolError) Unwrap() error { return ErrRegistryBuild }

// UnresolvedBaseError is returned when a derived unit refers to a unit that does not
// exist, is itself invalid, or refers back to the derived unit.
type UnresolvedBaseError struct {
	Symbol string
	Target string
	Cycle  bool
	Reason string
}

func (e *UnresolvedBaseError) Error() string {
	switch {
	case e.Cycle:
		return fmt.Sprintf("unit %s: definition cycle through %q", e.Symbol, e.Target)
	case e.Reason != "":
		return fmt.Sprintf("unit %s: cannot resolve %q: %s", e.Symbol, e.Target, e.Reason)
	}
	return fmt.Sprintf("unit %s: %q is not a registered unit", e.Symbol, e.Target)
}

func (e *UnresolvedBaseError) Unwrap() error { return ErrRegistryBuild }

// InvalidPrefixError is returned for a prefix with no symbols or a zero value.
type InvalidPrefixError struct {
	Name   string
	Reason string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("prefix %q: %s", e.Name, e.Reason)
}

func (e *InvalidPrefixError) Unwrap() error { return ErrRegistryBuild }

// InvalidScaleError is returned for a derived unit whose scale resolves to zero.
type InvalidScaleError struct {
	Symbol string
	Scale  float64
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("unit %s: scale must be non-zero, got %g", e.Symbol, e.Scale)
}

func (e *InvalidScaleError) Unwrap() error { return ErrRegistryBuild }

// InvalidUnitError is returned for a record whose shape is inconsistent, e.g. a base unit
// that also names a derivation, or a record with neither symbol nor name.
type InvalidUnitError struct {
	Index  int
	Symbol string
	Reason string
}

func (e *InvalidUnitError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("unit record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("unit %s: %s", e.Symbol, e.Reason)
}

func (e *InvalidUnitError) Unwrap() error { return ErrRegistryBuild }

// BuildError aggregates every problem found while building a registry, in record order.
type BuildError struct {
	Problems []error
}

func (e *BuildError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	noun := "problems"
	if len(e.Problems) == 1 {
		noun = "problem"
	}
	return fmt.Sprintf("registry build failed with %d %s: %s", len(e.Problems), noun, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.As.
func (e *BuildError) Unwrap() []error { return e.Problems }

// Is matches ErrRegistryBuild
func (e *BuildError) Is(target error) bool { return target == ErrRegistryBuild }

// Problem returns the first problem of type T, if any.
func Problem[T error](err error) (T, bool) {
	var zero T
	var be *BuildError
	if !errors.As(err, &be) {
		return zero, false
	}
	for _, p := range be.Problems {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// IsResolveError reports whether err belongs to the resolve family.
func IsResolveError(err error) bool {
	return err != nil && errors.Is(err, ErrResolve)
}

// IsConversionError reports whether err belongs to the conversion family.
func IsConversionError(err error) bool {
	return err != nil && errors.Is(err, ErrConversion)
}

// IsParseError reports whether err is a parse failure
func IsParseError(err error) bool {
	return err != nil && errors.Is(err, parser.ErrParse)
}

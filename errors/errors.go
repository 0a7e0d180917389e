// Package errors provides error handling for unitx.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints on diagnostics
//
// Usage:
//
//	// Wrap with context
//	if err := loadDefinitions(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'unitx list' to see known symbols")
//
// Domain error types (parse, resolve, conversion, registry build) live next to the
// code that returns them, in packages parser and units. They unwrap to sentinels so
// errors.Is works across package boundaries.
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for the outer layers (definitions, storage, CLI).
var (
	// ErrNotFound indicates the requested definitions file, record or symbol does not exist
	ErrNotFound = New("not found")

	// ErrInvalidDefinition indicates a definitions source could not be decoded into records
	ErrInvalidDefinition = New("invalid definition")

	// ErrUnsupportedFormat indicates a definitions or output format that is not implemented
	ErrUnsupportedFormat = New("unsupported format")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidDefinitionError checks if an error is or wraps ErrInvalidDefinition
func IsInvalidDefinitionError(err error) bool {
	return err != nil && Is(err, ErrInvalidDefinition)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidDefinitionError creates an invalid-definition error with a formatted message
func NewInvalidDefinitionError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidDefinition, Newf(format, args...).Error())
}

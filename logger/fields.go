package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across unitx.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"

	// Counts and sizes
	FieldCount    = "count"
	FieldUnits    = "units"
	FieldPrefixes = "prefixes"
	FieldKeys     = "keys"

	// Files and paths
	FieldPath   = "path"
	FieldFormat = "format"
	FieldSource = "source"

	// Timing
	FieldDurationMS = "duration_ms"

	// unitx-specific
	FieldSymbol     = "symbol"     // unit or prefix symbol
	FieldExpression = "expression" // raw unit expression text
	FieldDimension  = "dimension"  // canonical dimension string, e.g. "kg.m/s^2"
	FieldVersion    = "version"    // definitions set version
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Watcher struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewWatcher() *Watcher {
//	    return &Watcher{
//	        logger: logger.ComponentLogger("definitions.watcher"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

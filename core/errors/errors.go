// Package errors provides the error taxonomy shared by the ENSDF converter.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSpecies indicates a species symbol without a mass number
	ErrInvalidSpecies = errors.New("invalid species symbol")
	// ErrSpinExpression indicates a spin field that does not evaluate to a number
	ErrSpinExpression = errors.New("unevaluable spin expression")
)

// SpeciesFormatError is returned when a species symbol has no digit run.
type SpeciesFormatError struct {
	Symbol string
}

func (e *SpeciesFormatError) Error() string {
	return fmt.Sprintf("invalid species symbol %q: no mass number", e.Symbol)
}

func (e *SpeciesFormatError) Unwrap() error {
	return ErrInvalidSpecies
}

// SpinExpressionError is returned when a spin-parity field cannot be evaluated.
type SpinExpressionError struct {
	Field string // Raw spin-parity field
	Err   error  // Underlying error, if any
}

func (e *SpinExpressionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot evaluate spin %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("cannot evaluate spin %q", e.Field)
}

// Is reports ErrSpinExpression as a match so callers can test the class
// while Unwrap still exposes the parser error.
func (e *SpinExpressionError) Is(target error) bool {
	return target == ErrSpinExpression
}

func (e *SpinExpressionError) Unwrap() error {
	return e.Err
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "ENSDF", "XML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NewSpeciesFormat creates a SpeciesFormatError
func NewSpeciesFormat(symbol string) *SpeciesFormatError {
	return &SpeciesFormatError{Symbol: symbol}
}

// NewSpinExpression creates a SpinExpressionError
func NewSpinExpression(field string, err error) *SpinExpressionError {
	return &SpinExpressionError{Field: field, Err: err}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyStrategy    = errors.New("strategy has no legs")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDegenerateMarket = errors.New("degenerate market context")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrNotFound         = errors.New("not found")
	ErrDatabaseError    = errors.New("database error")
)

// InvalidInputError reports an out-of-domain numeric input. Inputs are
// never clamped; validation aborts the evaluation before any numerical
// work begins.
type InvalidInputError struct {
	Field   string
	Value   float64
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input [%s=%g]: %s", e.Field, e.Value, e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(field string, value float64, message string) *InvalidInputError {
	return &InvalidInputError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// EmptyStrategyError reports a strategy definition with zero legs.
type EmptyStrategyError struct {
	Name string
}

func (e *EmptyStrategyError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("empty strategy %q: at least one leg required", e.Name)
	}
	return "empty strategy: at least one leg required"
}

func (e *EmptyStrategyError) Unwrap() error {
	return ErrEmptyStrategy
}

// NewEmptyStrategyError creates a new EmptyStrategyError.
func NewEmptyStrategyError(name string) *EmptyStrategyError {
	return &EmptyStrategyError{Name: name}
}

// DegenerateMarketError reports a market context the distribution model
// cannot be built from, such as a negative time horizon.
type DegenerateMarketError struct {
	Field   string
	Value   float64
	Message string
}

func (e *DegenerateMarketError) Error() string {
	return fmt.Sprintf("degenerate market [%s=%g]: %s", e.Field, e.Value, e.Message)
}

func (e *DegenerateMarketError) Unwrap() error {
	return ErrDegenerateMarket
}

// NewDegenerateMarketError creates a new DegenerateMarketError.
func NewDegenerateMarketError(field string, value float64, message string) *DegenerateMarketError {
	return &DegenerateMarketError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents a persistence-layer error.
type StoreError struct {
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error [%s]: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %s", e.Operation, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, message string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Package errors provides standardized error handling patterns for semtransit.
// It includes error classification, standard error variables, and helper
// functions for consistent error wrapping across the pipeline.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes.
type ErrorClass int

const (
	// ErrorRecoverable represents per-row conditions that are recovered
	// locally: the row (or the specific edge/attribute) is skipped and
	// batch processing continues.
	ErrorRecoverable ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration.
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that abort the whole run.
	ErrorFatal
)

// String returns the string representation of ErrorClass.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorRecoverable:
		return "recoverable"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions.
var (
	// Schema declaration errors. All fatal: a broken schema aborts the run
	// before any individual is processed.
	ErrUnknownCategory      = errors.New("category not declared")
	ErrUnknownRelation      = errors.New("relation not declared")
	ErrUnknownAttribute     = errors.New("attribute not declared")
	ErrDuplicateDeclaration = errors.New("name already declared")
	ErrInverseMismatch      = errors.New("inverse relation domain/range mismatch")

	// Classification errors.
	ErrNonConvergence = errors.New("composite evaluation did not converge")

	// Ingestion errors. Recoverable at row granularity.
	ErrCoercionFailed    = errors.New("attribute coercion failed")
	ErrDanglingReference = errors.New("reference to unloaded individual")
	ErrMissingKey        = errors.New("row is missing its identifier column")

	// Data errors.
	ErrUnknownIndividual = errors.New("individual not found")
	ErrTypeMismatch      = errors.New("literal type does not match attribute declaration")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")
)

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsFatal checks if an error should abort the whole classification run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrUnknownRelation) ||
		errors.Is(err, ErrUnknownAttribute) ||
		errors.Is(err, ErrDuplicateDeclaration) ||
		errors.Is(err, ErrInverseMismatch) ||
		errors.Is(err, ErrNonConvergence) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsRecoverable checks if an error is a per-row condition that ingestion
// recovers from locally.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorRecoverable
	}

	return errors.Is(err, ErrCoercionFailed) ||
		errors.Is(err, ErrDanglingReference) ||
		errors.Is(err, ErrMissingKey)
}

// IsInvalid checks if an error is due to invalid input.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrUnknownIndividual)
}

// Classify returns the error class for an error.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorRecoverable
	}

	if IsFatal(err) {
		return ErrorFatal
	}
	if IsInvalid(err) {
		return ErrorInvalid
	}

	// Default to recoverable so an unrecognized row-level error never
	// takes down a batch.
	return ErrorRecoverable
}

// newClassified creates a new classified error.
// This is an internal helper - use WrapRecoverable(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapRecoverable wraps an error as recoverable with context.
func WrapRecoverable(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorRecoverable, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context.
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context.
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details.
package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Validation
	CodeInvalidFlight         ErrorCode = "INVALID_FLIGHT"
	CodeUnknownAirport        ErrorCode = "UNKNOWN_AIRPORT"
	CodeInvalidAirportsHeader ErrorCode = "INVALID_AIRPORTS_HEADER"
	CodeEmptyInstance         ErrorCode = "EMPTY_INSTANCE"
	CodeInvalidTime           ErrorCode = "INVALID_TIME"
	CodeNegativeCapacity      ErrorCode = "NEGATIVE_CAPACITY"
	CodeInvalidArgument       ErrorCode = "INVALID_ARGUMENT"
	CodeNilInput              ErrorCode = "NIL_INPUT"

	// Set cover validation
	CodeInvalidFoodItem     ErrorCode = "INVALID_FOOD_ITEM"
	CodeInvalidUniverse     ErrorCode = "INVALID_UNIVERSE"
	CodeInvalidCalorieLimit ErrorCode = "INVALID_CALORIE_LIMIT"
	CodeUnknownNutrient     ErrorCode = "UNKNOWN_NUTRIENT"

	// Algorithms
	CodeAlgorithmError ErrorCode = "ALGORITHM_ERROR"
	CodeTimeout        ErrorCode = "TIMEOUT"
	CodeIterationLimit ErrorCode = "ITERATION_LIMIT"
	CodeInfeasible     ErrorCode = "INFEASIBLE"

	// Flow-related
	CodeFlowViolation         ErrorCode = "FLOW_VIOLATION"
	CodeConservationViolation ErrorCode = "CONSERVATION_VIOLATION"
	CodeDemandImbalance       ErrorCode = "DEMAND_IMBALANCE"

	// General
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeNotFound ErrorCode = "NOT_FOUND"
	CodeIO       ErrorCode = "IO_ERROR"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message,
// an optional field, additional details, an underlying cause, and a severity level.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field indicates which input field caused the error, if applicable.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Severity: SeverityError,
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new Error that wraps an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Cause:    cause,
		Severity: SeverityError,
	}
}

// WithField returns a copy of the error annotated with the offending field.
func (e *Error) WithField(field string) *Error {
	clone := *e
	clone.Field = field
	return &clone
}

// WithDetail returns a copy of the error with an extra detail attached.
func (e *Error) WithDetail(key string, value any) *Error {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// WithSeverity returns a copy of the error with the given severity.
func (e *Error) WithSeverity(s Severity) *Error {
	clone := *e
	clone.Severity = s
	return &clone
}

// CodeOf extracts the ErrorCode from any error in the chain.
// Returns CodeInternal for non-application errors.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether the error chain contains an application error
// with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ExitCode maps an error to a process exit code for the CLI entry points.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case CodeInvalidFlight, CodeUnknownAirport, CodeInvalidAirportsHeader,
		CodeEmptyInstance, CodeInvalidTime, CodeInvalidArgument, CodeNilInput,
		CodeInvalidFoodItem, CodeInvalidUniverse, CodeInvalidCalorieLimit,
		CodeUnknownNutrient:
		return 2
	case CodeTimeout, CodeIterationLimit:
		return 3
	case CodeNotFound, CodeIO:
		return 4
	default:
		return 1
	}
}

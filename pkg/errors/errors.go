// Package errors provides the error and warning system used across numkit.
// Every routine in the library reports precondition violations through the
// structured error types defined here instead of aborting the process.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// default handler logs to standard error
		log.Printf("numkit-warning: %v\n", w)
	}
	// zerolog sink, injected lazily by pkg/log to avoid a circular import
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library.
// It controls what happens to soft diagnostics such as DomainWarning.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs the zerolog warning sink (injected by pkg/log).
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. When a zerolog sink has been installed it is
// preferred; otherwise the plain handler runs.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// DomainWarning reports how many elements of an input array fell outside
// the safe domain of a smooth extension and were replaced by the Taylor
// branch. Emitted only when the caller asks for verbose diagnostics.
type DomainWarning struct {
	Fn      string  // the extension, e.g. "Log"
	Count   int     // number of out-of-range elements
	Bound   float64 // the boundary that was crossed
	Extreme float64 // the most extreme offending value
}

func (w *DomainWarning) Error() string {
	final := ""
	if w.Count > 1 {
		final = "s"
	}
	return fmt.Sprintf("%s: %d argument%s beyond %g: extreme = %g",
		w.Fn, w.Count, final, w.Bound, w.Extreme)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *DomainWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("fn", w.Fn).
		Int("count", w.Count).
		Float64("bound", w.Bound).
		Float64("extreme", w.Extreme).
		Str("type", "DomainWarning")
}

// NewDomainWarning creates a new DomainWarning.
func NewDomainWarning(fn string, count int, bound, extreme float64) *DomainWarning {
	return &DomainWarning{Fn: fn, Count: count, Bound: bound, Extreme: extreme}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// ConvergenceError is returned when an iterative numerical method exceeds
// its iteration budget, e.g. the Newton root search in the quadrature
// node generators.
type ConvergenceError struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (e *ConvergenceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("numkit: %s failed to converge after %d iterations: %s", e.Algorithm, e.Iterations, e.Message)
	}
	return fmt.Sprintf("numkit: %s failed to converge after %d iterations", e.Algorithm, e.Iterations)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ConvergenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("algorithm", e.Algorithm).
		Int("iterations", e.Iterations).
		Str("message", e.Message).
		Str("type", "ConvergenceError")
}

// NewConvergenceError creates a ConvergenceError with a stack trace attached.
func NewConvergenceError(algorithm string, iterations int, message string) error {
	err := &ConvergenceError{Algorithm: algorithm, Iterations: iterations, Message: message}
	return errors.WithStack(err)
}

// DimensionError is returned when an array has the wrong rank or size for
// an operation: a matrix where a vector is required, mismatched lengths,
// a rectangular matrix where a square one is required, and so on.
type DimensionError struct {
	Op       string // the operation that received the bad input
	What     string // what was counted: "dimensions", "rows", "columns", "size"
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("numkit: %s: expected %d %s, got %d", e.Op, e.Expected, e.What, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("what", e.What).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op, what string, expected, got int) error {
	err := &DimensionError{Op: op, What: what, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ShapeError is returned when two arrays that must have identical shapes
// do not, or when an array has an unexpected full shape.
type ShapeError struct {
	Op       string
	Expected []int
	Got      []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("numkit: %s: expected shape %v, got %v", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ShapeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Ints("expected", e.Expected).
		Ints("got", e.Got).
		Str("type", "ShapeError")
}

// NewShapeError creates a ShapeError with a stack trace attached.
func NewShapeError(op string, expected, got []int) error {
	err := &ShapeError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValidationError is returned when a parameter fails validation, e.g. a
// derivative order outside {0, 1, 2}.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("numkit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is outside the domain of
// an operation, e.g. a nonpositive base raised to a scalar power.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("numkit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// NumericalInstabilityError reports NaN, Inf, overflow or underflow
// detected during a computation.
type NumericalInstabilityError struct {
	Operation string    // where it happened, e.g. "DCor"
	Values    []float64 // the offending values
	Iteration int       // iteration or draw index, -1 when not applicable
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("numkit: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a
// stack trace attached.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty array is passed in.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a linear solve meets a singular
	// or badly conditioned matrix.
	ErrSingularMatrix = New("singular matrix")
)

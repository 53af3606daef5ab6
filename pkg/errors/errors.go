// Package errors provides structured error handling for the Scribe widget kit.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a surface configuration error.
	KindConfig
	// KindSelector indicates a show-on selector that failed to compile.
	KindSelector
	// KindEval indicates a failure while evaluating a visibility predicate.
	KindEval
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindSelector:
		return "selector"
	case KindEval:
		return "eval"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ScribeError represents a structured error in the Scribe widget kit.
type ScribeError struct {
	// Op is the operation that failed (e.g., "surface.Load").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Selector is the show-on selector involved, if applicable.
	Selector string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ScribeError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("%s [%s] selector=%q: %v", e.Op, e.Kind, e.Selector, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ScribeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "visibility.Evaluate").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// EvalError represents a failure during a visibility predicate evaluation.
// Evaluation is fail-closed: the registry reports the failure and treats the
// evaluation as false, so a broken predicate hides its group rather than
// aborting the pass.
type EvalError struct {
	// Key is the canonical key of the group whose predicate failed.
	Key string
	// Element describes the element under test ("<none>" for the sentinel).
	Element string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the failure.
	StackTrace string
	// Timestamp is when the failure occurred.
	Timestamp time.Time
}

func (e *EvalError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic evaluating group %q against %s: %v", e.Key, e.Element, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error evaluating group %q against %s: %v", e.Key, e.Element, e.Err)
	}
	return fmt.Sprintf("unknown error evaluating group %q against %s", e.Key, e.Element)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the Scribe widget kit.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ScribeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleEvalError is called when a predicate evaluation fails.
	HandleEvalError(err *EvalError)
}

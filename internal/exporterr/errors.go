// Package exporterr defines the error taxonomy of an export run. Every
// failure that reaches the top level is one of these kinds; none of them are
// retried by the compiler.
package exporterr

import (
	"errors"
	"fmt"
)

// Kind classifies an export failure.
type Kind int

const (
	// GraphIntegrity means an edge references an unknown message or intent.
	GraphIntegrity Kind = iota + 1
	// Render means no response shape, not even the fallback, could be built.
	Render
	// IO covers write, copy, archive and upload failures.
	IO
	// InputTimeout means the project source did not deliver a snapshot in time.
	InputTimeout
	// Config means the export configuration is invalid.
	Config
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case GraphIntegrity:
		return "GraphIntegrityError"
	case Render:
		return "RenderError"
	case IO:
		return "IOError"
	case InputTimeout:
		return "InputTimeoutError"
	case Config:
		return "ConfigError"
	default:
		return "UnknownError"
	}
}

// Sentinels for use with errors.Is.
var (
	ErrGraphIntegrity = &Error{Kind: GraphIntegrity}
	ErrRender         = &Error{Kind: Render}
	ErrIO             = &Error{Kind: IO}
	ErrInputTimeout   = &Error{Kind: InputTimeout}
	ErrConfig         = &Error{Kind: Config}
)

// Error is a classified export failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with a kind and the operation that failed.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. This lets the
// package sentinels match any error of their kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first classified error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

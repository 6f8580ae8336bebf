// Package errs defines the error taxonomy shared across the francegen
// pipeline. Every error that crosses a component boundary is wrapped with a
// Kind, an operation name, and the path or name it concerns so the CLI can
// print a single, consistent line without re-deriving context.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of exit-code and logging
// policy. The CLI treats all kinds identically (exit 1) but the kind is
// useful for tests and for log filtering.
type Kind string

const (
	ConfigError Kind = "config"
	IOError     Kind = "io"
	DecodeError Kind = "decode"
	CrsError    Kind = "crs"
	HTTPError   Kind = "http"
	MissingData Kind = "missing_data"
	Invariant   Kind = "invariant"
)

// Error is a wrapped, contextualized pipeline error.
type Error struct {
	Kind  Kind
	Op    string // operation in progress, e.g. "ingest tile"
	Name  string // offending path/name, e.g. a file path or layer name
	Cause error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Name, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New wraps cause with the given kind/op/name context.
func New(kind Kind, op, name string, cause error) error {
	if cause == nil {
		cause = errors.New(op)
	}
	return &Error{Kind: kind, Op: op, Name: name, Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Package errs defines the error taxonomy shared across the manifest
// pipeline. Every failure surfaced to the CLI is one of four kinds:
// invalid user input, a file-system problem, a parse failure in one
// source file, or an internal fault. Each error carries only the
// fields its kind needs.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindInternal is the catch-all for faults that do not map to a
	// user-correctable condition.
	KindInternal Kind = iota
	// KindInput covers invalid or missing CLI arguments and empty
	// builder input.
	KindInput
	// KindFileSystem covers missing directories, unreadable files and
	// unwritable outputs.
	KindFileSystem
	// KindParse covers malformed source in a single file.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindFileSystem:
		return "filesystem"
	case KindParse:
		return "parse"
	default:
		return "internal"
	}
}

// Position is a best-effort source position attached to parse errors.
type Position struct {
	Line   int
	Column int
}

// Error is the tagged error type used across package boundaries.
type Error struct {
	Kind Kind
	Path string    // offending path, when known
	Pos  *Position // parse errors only
	Msg  string
	Err  error // wrapped cause, when any
}

func (e *Error) Error() string {
	switch {
	case e.Pos != nil && e.Path != "":
		return fmt.Sprintf("%s error in %s at %d:%d: %s", e.Kind, e.Path, e.Pos.Line, e.Pos.Column, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Path, e.Msg)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Input builds an input-validation error.
func Input(format string, args ...any) *Error {
	return &Error{Kind: KindInput, Msg: fmt.Sprintf(format, args...)}
}

// FileSystem wraps a file-system failure with the offending path.
func FileSystem(path string, err error) *Error {
	return &Error{Kind: KindFileSystem, Path: path, Msg: err.Error(), Err: err}
}

// Parse builds a parse failure for one source file. pos may be nil
// when no position is known.
func Parse(path string, pos *Position, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Path: path, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected fault.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: err.Error(), Err: err}
}

// KindOf reports the Kind of err, unwrapping as needed. Errors
// outside the taxonomy report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is (or wraps) an Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

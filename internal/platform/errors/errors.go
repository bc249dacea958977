// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across the tools
// Values are stable because exit statuses are derived from them; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeInvalidArgument is for bad command line arguments or flags
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for input data that fails validation (missing columns, bad rows)
	ErrorCodeValidation

	// ErrorCodeConfig is for invalid or incomplete configuration
	ErrorCodeConfig

	// ErrorCodeNotFound is for missing files, directories and organisation forms
	ErrorCodeNotFound

	// ErrorCodeConflict is for a shard tree that is locked by another writer
	ErrorCodeConflict

	// ErrorCodeIO is for read and write failures on shard files or dumps
	ErrorCodeIO

	// ErrorCodeDB is for export sink failures
	ErrorCodeDB

	// ErrorCodeUnavailable is for transient errors where retry may succeed
	ErrorCodeUnavailable
)

// Exit statuses returned by the command line tools
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitUsage      = 3
	ExitNotFound   = 4
	ExitIO         = 5
	ExitConflict   = 6
	ExitDB         = 7
)

// ExitStatus turns an ErrorCode into a process exit status
func ExitStatus(c ErrorCode) int {
	switch c {
	case ErrorCodeValidation, ErrorCodeConfig:
		return ExitValidation
	case ErrorCodeInvalidArgument:
		return ExitUsage
	case ErrorCodeNotFound:
		return ExitNotFound
	case ErrorCodeIO:
		return ExitIO
	case ErrorCodeConflict:
		return ExitConflict
	case ErrorCodeDB, ErrorCodeUnavailable:
		return ExitDB
	default:
		return ExitFailure
	}
}

// String returns a short lowercase label for logs
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeInvalidArgument:
		return "invalid_argument"
	case ErrorCodeValidation:
		return "validation"
	case ErrorCodeConfig:
		return "config"
	case ErrorCodeNotFound:
		return "not_found"
	case ErrorCodeConflict:
		return "conflict"
	case ErrorCodeIO:
		return "io"
	case ErrorCodeDB:
		return "db"
	case ErrorCodeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human facing; code is machine facing
// field is optional (column or flag name); op is optional operation tag
// hints are extra lines printed under the message (e.g. available choices)
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
	hints []string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Hints returns extra lines meant for the operator
func (e *Error) Hints() []string { return append([]string(nil), e.hints...) }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the mapped exit status for any error; nil maps to ExitOK
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitStatus(CodeOf(err))
}

// HintsOf returns the hints of the outermost *Error in the chain
func HintsOf(err error) []string {
	if e, ok := As(err); ok {
		return e.Hints()
	}
	return nil
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// WithHints attaches operator hints to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithHints(err error, hints ...string) error {
	if e, ok := As(err); ok {
		c := *e
		c.hints = append(append([]string(nil), e.hints...), hints...)
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// Configf returns a configuration error
func Configf(format string, a ...any) error { return Newf(ErrorCodeConfig, format, a...) }

// Conflictf returns a conflict error
func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }

// IOf wraps an I/O failure
func IOf(orig error, format string, a ...any) error { return Wrapf(orig, ErrorCodeIO, format, a...) }

// DBf returns a general database error
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// Retry semantics

// Retryable reports whether the error is retryable. Delegates to backend-specific logic.
// Currently backed by Postgres helpers in pg.go (IsRetryable), and can be extended.
func Retryable(err error) bool { return IsRetryable(err) }

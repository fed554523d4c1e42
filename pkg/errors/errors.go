// Package errors carries machine-readable codes through the lfom stack.
//
// The design stages return coded errors; the CLI prints them and the HTTP API
// maps the code to a status and puts it in the response envelope.
//
// Codes group by prefix:
//
//	INVALID_*   bad flow, headloss, unit string or configuration
//	CATALOG_*   no pipe or drill bit satisfies a bound, or a catalog file is malformed
//	NOT_FOUND   unknown drill series or route
//	INTERNAL_*  anything else
//
// Clamped rows are not errors. The row allocator records them in the design
// record instead.
//
// Typical use:
//
//	if q <= 0 {
//		return errors.New(errors.ErrCodeInvalidInput, "flow must be positive, got %g", q)
//	}
//	...
//	if err := stage(); err != nil {
//		return errors.Annotate(err, "size pipe")
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidUnit   Code = "INVALID_UNIT"

	ErrCodeCatalogExhausted Code = "CATALOG_EXHAUSTED"
	ErrCodeCatalogInvalid   Code = "CATALOG_INVALID"

	ErrCodeNotFound Code = "NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with the given code around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Annotate adds context to err while keeping its code. Uncoded errors
// become INTERNAL_ERROR. A nil err stays nil.
func Annotate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Wrap(code, err, format, args...)
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage renders err without code prefixes, e.g.
// "size pipe: no pipe in catalog has an inner diameter of at least 0.9 m".
func UserMessage(err error) string {
	e, ok := as(err)
	if !ok {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

func as(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

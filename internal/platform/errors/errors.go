// Package errors provides the coded error type shared by every layer of zhkh.
// Import it as perr.
//
// An *Error carries a public message and a machine code; the wrapped cause
// stays in logs and never reaches the wire.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable class of an error; values go over the wire, append only
type ErrorCode uint16

// Codes
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB

	// ErrorCodeAuthConfig means provider credentials are absent or malformed
	ErrorCodeAuthConfig

	// ErrorCodeAuthFailure means a provider refused or botched the token exchange
	ErrorCodeAuthFailure

	// ErrorCodeRemote means an upstream call failed or answered garbage
	ErrorCodeRemote
)

var codeInfo = map[ErrorCode]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:       {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:    {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeAuthConfig:      {"auth_config", http.StatusInternalServerError},
	ErrorCodeAuthFailure:     {"auth_failure", http.StatusBadGateway},
	ErrorCodeRemote:          {"remote", http.StatusBadGateway},
}

// String names the code for logs and metrics labels
func (c ErrorCode) String() string {
	if i, ok := codeInfo[c]; ok {
		return i.name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Status is the http status the code maps to, 500 for anything unmapped
func (c ErrorCode) Status() int {
	if i, ok := codeInfo[c]; ok {
		return i.status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is the sentinel for lookups that came back empty
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error; op is an optional tag callers can branch on
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the public part of an error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation tag, if any
func (e *Error) Op() string { return e.op }

// WireFrom returns the public part of err; foreign errors keep their text under Unknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

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

// As returns the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost *Error, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped status for any error
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// WithField returns a copy of err naming the offending field; foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp returns a copy of err tagged with op; foreign errors pass through
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// New returns an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error with code and msg around orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with formatting
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Shorthand constructors for the codes handlers produce most

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Validationf(format string, a ...any) error  { return Newf(ErrorCodeValidation, format, a...) }
func AuthConfigf(format string, a ...any) error  { return Newf(ErrorCodeAuthConfig, format, a...) }
func AuthFailuref(format string, a ...any) error { return Newf(ErrorCodeAuthFailure, format, a...) }
func Remotef(format string, a ...any) error      { return Newf(ErrorCodeRemote, format, a...) }

// Retryable reports whether another attempt may succeed: transient codes
// and storage contention qualify
func Retryable(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	}
	return IsRetryable(err)
}

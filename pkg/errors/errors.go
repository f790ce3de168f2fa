package errors

import (
	stdErrors "errors"
	"net/http"
)

// Code classifies an error for clients; the HTTP status follows from it.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeIdempotency  Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Meta is how errors of one code are rendered.
type Meta struct {
	Status        int
	Public        string
	Retryable     bool
	ExposeDetails bool
}

// ExposesMessage reports whether the error's own message may reach the
// client. Server side failures only ever show the public text.
func (m Meta) ExposesMessage() bool {
	return m.Status < http.StatusInternalServerError
}

var metaByCode = map[Code]Meta{
	CodeValidation:   {Status: http.StatusBadRequest, Public: "validation failed", ExposeDetails: true},
	CodeUnauthorized: {Status: http.StatusUnauthorized, Public: "authentication required"},
	CodeForbidden:    {Status: http.StatusForbidden, Public: "access denied"},
	CodeNotFound:     {Status: http.StatusNotFound, Public: "resource not found"},
	CodeConflict:     {Status: http.StatusConflict, Public: "conflict detected", ExposeDetails: true},
	CodeIdempotency:  {Status: http.StatusConflict, Public: "idempotency key reused", ExposeDetails: true},
	CodeRateLimit:    {Status: http.StatusTooManyRequests, Public: "rate limit exceeded"},
	CodeInternal:     {Status: http.StatusInternalServerError, Public: "internal server error", Retryable: true},
	CodeDependency:   {Status: http.StatusServiceUnavailable, Public: "dependency unavailable", Retryable: true, ExposeDetails: true},
}

// Lookup returns the rendering of code; unknown codes render as internal.
func Lookup(code Code) Meta {
	if meta, ok := metaByCode[code]; ok {
		return meta
	}
	return metaByCode[CodeInternal]
}

// Error is a coded error. The message is written for operators and is only
// shown to clients when the code allows it.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches code and message to err. A nil err yields a plain New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails sets structured context, e.g. the offending field, and
// returns e for chaining.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.code) + ": " + e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// Is reports whether err carries a typed error with the given code.
func Is(err error, code Code) bool {
	return As(err).codeOrEmpty() == code
}

func (e *Error) codeOrEmpty() Code {
	if e == nil {
		return ""
	}
	return e.code
}

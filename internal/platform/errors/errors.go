// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies failures across the screening service
// Values are stable for wire compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware or a detector guard
	ErrorCodePanic

	// ErrorCodeUnavailable is for transient dependency failures
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is for provider quota and rate limits
	ErrorCodeTooManyRequests

	// ErrorCodeUnauthorized is for missing or unknown tenant keys
	ErrorCodeUnauthorized

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for request payload validation failures
	ErrorCodeValidation

	// ErrorCodeJSON is for JSON decoding errors
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeConfig is for a tenant policy that is missing or invalid
	ErrorCodeConfig

	// ErrorCodeTimeout is for deadlines hit on outbound calls
	ErrorCodeTimeout

	// ErrorCodeDetector is for failures inside a detector (never surfaced to callers)
	ErrorCodeDetector

	// ErrorCodeDB is for general storage errors
	ErrorCodeDB
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:         "unknown",
	ErrorCodePanic:           "panic",
	ErrorCodeUnavailable:     "unavailable",
	ErrorCodeTooManyRequests: "too_many_requests",
	ErrorCodeUnauthorized:    "unauthorized",
	ErrorCodeInvalidArgument: "invalid_argument",
	ErrorCodeValidation:      "validation",
	ErrorCodeJSON:            "json",
	ErrorCodeNotFound:        "not_found",
	ErrorCodeConfig:          "config",
	ErrorCodeTimeout:         "timeout",
	ErrorCodeDetector:        "detector",
	ErrorCodeDB:              "db",
}

// String returns the log friendly name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument, ErrorCodeConfig:
		return http.StatusUnprocessableEntity
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human facing, code is machine facing, field is optional (validation),
// op is an optional operation tag and orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
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

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error into a Wire payload
// nil yields the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
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

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField attaches a field to an *Error (copy-on-write). Foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). Foreign errors pass through
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

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

// WrapIf wraps only when err != nil
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Configf returns a tenant configuration error
func Configf(format string, a ...any) error { return Newf(ErrorCodeConfig, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unauthorizedf returns an unauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// TooManyRequestsf returns a rate limit error
func TooManyRequestsf(format string, a ...any) error {
	return Newf(ErrorCodeTooManyRequests, format, a...)
}

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// AsConfig promotes a policy lookup failure into a ConfigError, keeping the cause
// nil stays nil and an existing ConfigError is returned unchanged
func AsConfig(err error, tenantID string) error {
	if err == nil || IsCode(err, ErrorCodeConfig) {
		return err
	}
	if IsCode(err, ErrorCodeNotFound) {
		return Wrapf(err, ErrorCodeConfig, "no policy for tenant %q", tenantID)
	}
	return Wrapf(err, ErrorCodeConfig, "policy for tenant %q unavailable", tenantID)
}

// FromStatus maps an upstream HTTP status to an ErrorCode
// 2xx and 3xx map to Unknown, callers should not wrap those
func FromStatus(status int) ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorCodeUnauthorized
	case status == http.StatusNotFound:
		return ErrorCodeNotFound
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrorCodeTimeout
	case status >= 500:
		return ErrorCodeUnavailable
	case status >= 400:
		return ErrorCodeInvalidArgument
	default:
		return ErrorCodeUnknown
	}
}

// HTTP bundles status + wire in one shot
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Package apperr defines the error taxonomy shared by the refresh and
// caching core and the HTTP presentation layer.
package apperr

import (
	"errors"
	"fmt"
)

// Code categorizes an error for HTTP status mapping and client messaging.
type Code string

const (
	// CodeNotFound: station unknown, or no valid observation data exists.
	CodeNotFound Code = "NotFound"
	// CodeOutOfGrid: coordinates outside all forecast models. Internal;
	// callers translate this into "no forecast" rather than an HTTP error.
	CodeOutOfGrid Code = "OutOfGrid"
	// CodeUpstreamUnavailable: network error, timeout, 5xx, or 404 from an
	// external service after retries are exhausted.
	CodeUpstreamUnavailable Code = "UpstreamUnavailable"
	// CodeTimeout: deadline exceeded for an individual fetch.
	CodeTimeout Code = "Timeout"
	// CodeInternal: parse failure on an otherwise well-formed response.
	CodeInternal Code = "Internal"
	// codeNoData is internal to the buoy fetcher: no valid observation row
	// was present in an otherwise successful fetch. The aggregator
	// translates this into CodeNotFound at the envelope boundary; it is
	// never surfaced past that point.
	codeNoData Code = "NoData"
)

// CodeNoData returns the buoy fetcher's internal "no valid row" code.
func CodeNoData() Code { return codeNoData }

// Error is the standard error type used throughout the core.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an *Error from an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code of err if it is (or wraps) an *Error, otherwise
// CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

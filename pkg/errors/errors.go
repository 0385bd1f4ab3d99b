package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrBadRequest ErrorCode = iota + 1000
	ErrUnauthorized
	ErrForbidden
	ErrNotFound
	ErrConflict
	ErrUpstream
	ErrUnavailable
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func BadRequest(message string, err error) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return &AppError{Code: ErrBadRequest, Message: message, Err: err}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "authentication required", Err: err}
}

func Forbidden(err error) *AppError {
	return &AppError{Code: ErrForbidden, Message: "access denied", Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Conflict(message string, err error) *AppError {
	if message == "" {
		message = "conflict"
	}
	return &AppError{Code: ErrConflict, Message: message, Err: err}
}

func Upstream(message string, err error) *AppError {
	if message == "" {
		message = "upstream request failed"
	}
	return &AppError{Code: ErrUpstream, Message: message, Err: err}
}

func Unavailable(err error) *AppError {
	return &AppError{Code: ErrUnavailable, Message: "service temporarily unavailable", Err: err}
}

// FromStatus maps an upstream HTTP status to an AppError. The message,
// when non-empty, is surfaced verbatim; otherwise a generic one is used.
func FromStatus(status int, message string) *AppError {
	switch {
	case status == http.StatusUnauthorized:
		return Unauthorized(nil)
	case status == http.StatusForbidden:
		return Forbidden(nil)
	case status == http.StatusNotFound:
		if message == "" {
			message = "resource"
		}
		return &AppError{Code: ErrNotFound, Message: message, Err: nil}
	case status == http.StatusConflict:
		return Conflict(message, nil)
	case status >= 400 && status < 500:
		return BadRequest(message, nil)
	default:
		return Upstream(message, fmt.Errorf("status %d", status))
	}
}

// IsUnauthorized reports whether err carries the unauthorized code, so
// callers can fall back to the login page.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrUnauthorized
}

// IsForbidden reports whether err carries the forbidden code.
func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrForbidden
}

// IsConflict reports whether err carries the conflict code, which the
// upstream uses for duplicate registrations.
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrConflict
}

// Message extracts a user-facing message, falling back when err is not
// an AppError.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// Package errors provides the application error taxonomy shared by all
// route handlers.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// AppError is an application-level error carrying an error code, a
// user-facing message and the HTTP status it maps to.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		HTTPStatus: e.HTTPStatus,
		Cause:      cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		HTTPStatus: e.HTTPStatus,
		Cause:      e.Cause,
	}
}

// ToJSON renders the error as the JSON body sent to clients.
func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(map[string]string{
		"error": e.Message,
	})
	return data
}

// WriteResponse writes the error to an HTTP response.
func (e *AppError) WriteResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	w.Write(e.ToJSON())
}

// Error codes.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeUpstreamError  = "upstream_error"
	CodeParseError     = "parse_error"
	CodeInternalError  = "internal_error"
)

// Predefined error instances.
var (
	ErrInvalidRequest = &AppError{
		Code:       CodeInvalidRequest,
		Message:    "invalid request",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrMethodNotAllowed = &AppError{
		Code:       CodeInvalidRequest,
		Message:    "method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
	ErrTitleNotFound = &AppError{
		Code:       CodeNotFound,
		Message:    "Title not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrAgencyNotFound = &AppError{
		Code:       CodeNotFound,
		Message:    "Agency not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrUpstreamUnavailable = &AppError{
		Code:       CodeUpstreamError,
		Message:    "failed to fetch data from eCFR",
		HTTPStatus: http.StatusInternalServerError,
	}
	ErrParseFailure = &AppError{
		Code:       CodeParseError,
		Message:    "failed to parse upstream document",
		HTTPStatus: http.StatusInternalServerError,
	}
	ErrInternal = &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// New creates a new application error.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps a standard error as the given application error.
func Wrap(err error, appErr *AppError) *AppError {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

// Is reports whether err carries the same code as target.
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// GetHTTPStatus extracts the HTTP status from an error, defaulting to 500.
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

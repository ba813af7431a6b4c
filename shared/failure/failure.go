package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	KindValidation  = "VALIDATION_ERROR"
	KindNotFound    = "NOT_FOUND"
	KindConflict    = "CONFLICT"
	KindUnavailable = "UNAVAILABLE"
	KindRateLimited = "RATE_LIMITED"
	KindNotAllowed  = "METHOD_NOT_ALLOWED"
	KindInternal    = "INTERNAL_ERROR"
)

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidPageSizeParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page_size parameter"}
var InvalidIDParam = &Failure{Code: http.StatusBadRequest, Message: "invalid id parameter"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// Unavailable returns a new Failure for a dependency that is unreachable or timed out.
// Callers may retry.
func Unavailable(message string) error {
	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Message: message,
	}
}

// MethodNotAllowed returns a new Failure for a route that exists under another method.
func MethodNotAllowed() error {
	return &Failure{
		Code:    http.StatusMethodNotAllowed,
		Message: "method not allowed",
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetMessage returns the message of the innermost Failure, or the error text when err carries none.
func GetMessage(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Message
	}

	return err.Error()
}

// GetKind returns the stable error kind reported to clients.
func GetKind(err error) string {
	switch GetCode(err) {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusServiceUnavailable:
		return KindUnavailable
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusMethodNotAllowed:
		return KindNotAllowed
	default:
		return KindInternal
	}
}

// IsNotFound reports whether err carries a not found Failure.
func IsNotFound(err error) bool {
	return GetCode(err) == http.StatusNotFound
}

// IsUnavailable reports whether err carries an unavailable Failure.
func IsUnavailable(err error) bool {
	return GetCode(err) == http.StatusServiceUnavailable
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by every storefront aggregate. Repositories wrap
// them; services return them or an *AppError built on top of them.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

type kind struct {
	sentinel error
	status   int
	code     string
	message  string
}

// kinds is checked in order by Describe.
var kinds = []kind{
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND", "resource not found"},
	{ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS", "resource already exists"},
	{ErrConflict, http.StatusConflict, "CONFLICT", "resource conflict"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT", ""},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN", "access denied"},
}

// AppError carries a client-facing code and message on top of a sentinel.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(sentinel error, code, message string) *AppError {
	for _, k := range kinds {
		if k.sentinel == sentinel {
			if code == "" {
				code = k.code
			}
			return &AppError{Code: code, Message: message, Status: k.status, Err: sentinel}
		}
	}
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError, Err: sentinel}
}

// NotFound reports a missing product, category, cart item or order.
func NotFound(resource string, id int64) *AppError {
	return newError(ErrNotFound, "", fmt.Sprintf("%s with id %d not found", resource, id))
}

// AlreadyExists reports a unique key collision such as a category slug.
func AlreadyExists(resource, field, value string) *AppError {
	return newError(ErrAlreadyExists, "", fmt.Sprintf("%s with %s %q already exists", resource, field, value))
}

// InvalidInput reports a request that could not be parsed.
func InvalidInput(message string) *AppError {
	return newError(ErrInvalidInput, "", message)
}

// Validation reports well-formed input that breaks a business rule, such as a
// non-positive quantity.
func Validation(message string) *AppError {
	return newError(ErrInvalidInput, "VALIDATION_ERROR", message)
}

// Forbidden reports access to another user's cart item or order.
func Forbidden(message string) *AppError {
	return newError(ErrForbidden, "", message)
}

// Conflict reports a state clash, e.g. deleting a category still in use.
func Conflict(message string) *AppError {
	return newError(ErrConflict, "", message)
}

// Describe returns the HTTP status, error code and client-safe message for
// err. An *AppError anywhere in the chain wins; otherwise the first matching
// sentinel decides. Anything else is a 500 whose details stay in the logs.
func Describe(err error) (status int, code, message string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Code, appErr.Message
	}

	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			if k.message == "" {
				return k.status, k.code, err.Error()
			}
			return k.status, k.code, k.message
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	status, _, _ := Describe(err)
	return status
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrAlreadyExists
	ErrInvalidTransition
	ErrConflict
	ErrNotAssigned
	ErrPartialFailure
	ErrStoreUnavailable
	ErrUnauthorized
	ErrInternal
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

// StatusCode maps the error code to an HTTP status
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrAlreadyExists, ErrConflict, ErrInvalidTransition, ErrNotAssigned:
		return http.StatusConflict
	case ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns the code of err if it is an AppError, ErrInternal otherwise.
func Kind(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func Is(err error, code ErrorCode) bool {
	return Kind(err) == code
}

// Error constructors
func Validation(message string, err error) *AppError {
	return &AppError{Code: ErrValidation, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func AlreadyExists(resource, id string) *AppError {
	return &AppError{Code: ErrAlreadyExists, Message: fmt.Sprintf("%s %s already exists", resource, id)}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{Code: ErrInvalidTransition, Message: fmt.Sprintf("invalid status transition from %s to %s", from, to)}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Code: ErrConflict, Message: message, Err: err}
}

func NotAssigned(patientID string) *AppError {
	return &AppError{Code: ErrNotAssigned, Message: fmt.Sprintf("patient %s has no bed assignment", patientID)}
}

// PartialFailure marks a multi-step operation that completed its first,
// authoritative step but failed a later one. Reconciliation repairs these.
func PartialFailure(message string, err error) *AppError {
	return &AppError{Code: ErrPartialFailure, Message: message, Err: err}
}

func StoreUnavailable(err error) *AppError {
	return &AppError{Code: ErrStoreUnavailable, Message: "store unavailable", Err: err}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "unauthorized", Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

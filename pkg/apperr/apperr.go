package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error standardizes application errors across services and HTTP handlers.
// Code is a stable machine-readable identifier; HTTPStatus drives the
// response status at the boundary.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error with the given code, message and status.
func New(code, message string, status int, details map[string]any) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidation(message string) error {
	return New("VALIDATION_FAILED", message, http.StatusBadRequest, nil)
}

func NewNotFound(message string) error {
	return New("NOT_FOUND", message, http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return New("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return New("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string) error {
	return New("CONFLICT", message, http.StatusConflict, nil)
}

func NewInternal(err error) error {
	return &Error{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// From converts an arbitrary error to *Error. Unrecognized errors become
// internal errors; pgx.ErrNoRows maps to a generic not-found.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return New("NOT_FOUND", "resource not found", http.StatusNotFound, map[string]any{})
	}
	return &Error{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a not-found application error.
func IsNotFound(err error) bool { return IsCode(err, "NOT_FOUND") }

// IsConflict reports whether err is a conflict application error.
func IsConflict(err error) bool { return IsCode(err, "CONFLICT") }

// IsForbidden reports whether err is a forbidden application error.
func IsForbidden(err error) bool { return IsCode(err, "FORBIDDEN") }

// IsValidation reports whether err is a validation application error.
func IsValidation(err error) bool { return IsCode(err, "VALIDATION_FAILED") }

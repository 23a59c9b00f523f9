package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is wrapped by every package-level "not found" sentinel.
var ErrNotFound = errors.New("not found")

// NotFound builds a package sentinel such as "student not found" that matches ErrNotFound.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// Invalid is a shorthand for a single-field ValidationError.
func Invalid(field, msg string) error {
	return NewValidationError(fmt.Errorf("invalid %s: %s", field, msg), FieldError{Field: field, Error: msg})
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// HTTPStatus maps an error returned by a service to the response status handlers should use.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrForbidden    = errors.New("operation not allowed")
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrConflict     = errors.New("resource conflict")
	ErrValidation   = errors.New("validation failed")
)

type ApiErr struct {
	StatusCode int
	msg        string
	kinds      []error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func newApiErr(statusCode int, message string, kinds ...error) *ApiErr {
	return &ApiErr{StatusCode: statusCode, msg: message, kinds: kinds}
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return newApiErr(statusCode, message)
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.msg, e.Details)
	}
	return e.msg
}

// Message is the client facing text without details.
func (e *ApiErr) Message() string {
	return e.msg
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// Unwrap exposes the sentinels so errors.Is(err, ErrConflict) and friends work
// on wrapped ApiErr values.
func (e *ApiErr) Unwrap() []error {
	return e.kinds
}

// Internal reports whether the error must be hidden from clients.
func (e *ApiErr) Internal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func NewUnauthorizedError(message string) *ApiErr {
	return newApiErr(http.StatusUnauthorized, message, ErrUnauthorized)
}

func NewConflictError(message string) *ApiErr {
	return newApiErr(http.StatusConflict, message, ErrConflict)
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	e := newApiErr(http.StatusInternalServerError, message, ErrInternal)
	e.Cause = cause
	return e
}

// NewValidationError reports the first rule a submission breaks.
func NewValidationError(field, message string) *ApiErr {
	e := newApiErr(http.StatusBadRequest, message, ErrValidation)
	e.Field = field
	return e
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

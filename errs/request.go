package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken      = errors.New("missing access token")
	ErrInvalidToken      = errors.New("invalid access token")
	ErrExpiredToken      = errors.New("expired access token")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidParameter = errors.New("invalid parameter")
)

func NewMissingTokenError() *ApiErr {
	e := newApiErr(http.StatusUnauthorized, "authentication required", ErrMissingToken, ErrUnauthorized)
	e.Field = "authorization"
	return e
}

func NewInvalidTokenError() *ApiErr {
	e := newApiErr(http.StatusUnauthorized, "invalid access token", ErrInvalidToken, ErrUnauthorized)
	e.Field = "authorization"
	return e
}

func NewExpiredTokenError() *ApiErr {
	e := newApiErr(http.StatusUnauthorized, "access token has expired", ErrExpiredToken, ErrUnauthorized)
	e.Field = "authorization"
	return e
}

func NewInsufficientRoleError(requiredRole string) *ApiErr {
	e := newApiErr(http.StatusForbidden, "insufficient permissions", ErrInsufficientRole, ErrForbidden)
	e.Details = fmt.Sprintf("Role '%s' is required", requiredRole)
	return e
}

func NewRateLimitError(scope string, retryAfter time.Duration) *ApiErr {
	e := newApiErr(http.StatusTooManyRequests, "too many requests", ErrRateLimitExceeded)
	e.Details = fmt.Sprintf("Rate limit exceeded for %s, retry after %s", scope, retryAfter.Round(time.Second))
	return e
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	e := newApiErr(http.StatusBadRequest, fmt.Sprintf("malformed %s payload", payloadType), ErrMalformedPayload, ErrBadRequest)
	e.Field = "payload"
	e.Cause = cause
	return e
}

func NewInvalidParameterError(name, reason string) *ApiErr {
	e := newApiErr(http.StatusBadRequest, fmt.Sprintf("invalid %s", name), ErrInvalidParameter, ErrBadRequest)
	e.Field = name
	e.Details = reason
	return e
}

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gateway error taxonomy.
// Use errors.Is() to check against these.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrConfiguration    = errors.New("configuration error")
	ErrAuthentication   = errors.New("supplier authentication failed")
	ErrUpstreamError    = errors.New("upstream error")
	ErrSupplierRejected = errors.New("supplier rejected request")
	ErrRateLimited      = errors.New("rate limited")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewConfigError creates a non-retryable error for unknown suppliers,
// missing endpoint sets and absent secrets. Raised before any network call.
func NewConfigError(reason string) *APIError {
	return &APIError{
		Code:       "CONFIGURATION_ERROR",
		Message:    reason,
		StatusCode: 500,
		Err:        ErrConfiguration,
	}
}

// NewAuthError creates a 502 error for a supplier rejecting our credentials.
func NewAuthError(supplier string, err error) *APIError {
	return &APIError{
		Code:       "SUPPLIER_AUTH_FAILED",
		Message:    fmt.Sprintf("%s authentication failed", supplier),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrAuthentication, err),
	}
}

// NewUpstreamError creates a 502 error for transport failures and non-2xx
// supplier responses. operation is a short label such as "Pricing" or "Order".
func NewUpstreamError(supplier, operation string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s %s request failed: %v", supplier, operation, err),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstreamError, err),
	}
}

// NewSupplierError promotes an error code carried in a 2xx response body
// to a request failure.
func NewSupplierError(supplier, operation, code, message string) *APIError {
	return &APIError{
		Code:       "SUPPLIER_ERROR",
		Message:    fmt.Sprintf("%s %s error: %s - %s", supplier, operation, code, message),
		StatusCode: 502,
		Err:        ErrSupplierRejected,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// NewRateLimitError creates a 429 error for rate limiting.
func NewRateLimitError(service string) *APIError {
	return &APIError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("%s rate limit exceeded, please retry later", service),
		StatusCode: 429,
		Err:        ErrRateLimited,
	}
}

// FromStatus maps a non-2xx supplier status to the matching error.
// 401/403 on an authenticated call means the credential was refused.
func FromStatus(supplier, operation string, status int, body string) *APIError {
	cause := fmt.Errorf("status %d: %s", status, body)
	switch status {
	case 401, 403:
		return NewAuthError(supplier, cause)
	case 429:
		return NewRateLimitError(supplier)
	default:
		return NewUpstreamError(supplier, operation, cause)
	}
}

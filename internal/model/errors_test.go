package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "without wrapped error",
			err: &APIError{
				Code:    "TEST_ERROR",
				Message: "something went wrong",
			},
			want: "TEST_ERROR: something went wrong",
		},
		{
			name: "with wrapped error",
			err: &APIError{
				Code:    "TEST_ERROR",
				Message: "something went wrong",
				Err:     errors.New("underlying cause"),
			},
			want: "TEST_ERROR: something went wrong (underlying cause)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &APIError{
		Code:    "TEST",
		Message: "test",
		Err:     underlying,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlying {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlying)
	}

	// Test nil case
	errNoWrap := &APIError{Code: "TEST", Message: "test"}
	if errNoWrap.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no wrapped error")
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("supplier")

	if err.Code != "NOT_FOUND" {
		t.Errorf("Code = %q, want %q", err.Code, "NOT_FOUND")
	}
	if err.Message != "supplier not found" {
		t.Errorf("Message = %q, want %q", err.Message, "supplier not found")
	}
	if err.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, 404)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("error should wrap ErrNotFound sentinel")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("email", "must be valid email address")

	if err.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want %q", err.Code, "VALIDATION_ERROR")
	}
	if err.Message != "invalid email: must be valid email address" {
		t.Errorf("Message = %q, want %q", err.Message, "invalid email: must be valid email address")
	}
	if err.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, 400)
	}
	if !errors.Is(err, ErrInvalidRequest) {
		t.Error("error should wrap ErrInvalidRequest sentinel")
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("Supplier XYZ not found in config")

	if err.Code != "CONFIGURATION_ERROR" {
		t.Errorf("Code = %q, want %q", err.Code, "CONFIGURATION_ERROR")
	}
	if err.Message != "Supplier XYZ not found in config" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, 500)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("error should wrap ErrConfiguration sentinel")
	}
}

func TestNewAuthError(t *testing.T) {
	err := NewAuthError("ABC", errors.New("invalid_client"))

	if err.Code != "SUPPLIER_AUTH_FAILED" {
		t.Errorf("Code = %q, want %q", err.Code, "SUPPLIER_AUTH_FAILED")
	}
	if err.Message != "ABC authentication failed" {
		t.Errorf("Message = %q, want %q", err.Message, "ABC authentication failed")
	}
	if !errors.Is(err, ErrAuthentication) {
		t.Error("error should wrap ErrAuthentication sentinel")
	}
	if !strings.Contains(err.Error(), "invalid_client") {
		t.Errorf("Error() = %q, should carry the cause", err.Error())
	}
}

func TestNewUpstreamError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewUpstreamError("SRS", "Pricing", underlying)

	if err.Code != "UPSTREAM_ERROR" {
		t.Errorf("Code = %q, want %q", err.Code, "UPSTREAM_ERROR")
	}
	if err.Message != "SRS Pricing request failed: connection refused" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.StatusCode != 502 {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, 502)
	}
	if !errors.Is(err, ErrUpstreamError) {
		t.Error("error should wrap ErrUpstreamError sentinel")
	}
}

func TestNewSupplierError(t *testing.T) {
	err := NewSupplierError("BEACON", "Pricing", "E401", "session expired")

	if err.Code != "SUPPLIER_ERROR" {
		t.Errorf("Code = %q, want %q", err.Code, "SUPPLIER_ERROR")
	}
	if err.Message != "BEACON Pricing error: E401 - session expired" {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, ErrSupplierRejected) {
		t.Error("error should wrap ErrSupplierRejected sentinel")
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{401, ErrAuthentication},
		{403, ErrAuthentication},
		{429, ErrRateLimited},
		{500, ErrUpstreamError},
		{404, ErrUpstreamError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			err := FromStatus("ABC", "Order", tt.status, "body")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("FromStatus(%d) = %v, want %v", tt.status, err, tt.sentinel)
			}
		})
	}
}

func TestNewInternalError(t *testing.T) {
	underlying := errors.New("null pointer dereference")
	err := NewInternalError(underlying)

	if err.Code != "INTERNAL_ERROR" {
		t.Errorf("Code = %q, want %q", err.Code, "INTERNAL_ERROR")
	}
	if err.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, 500)
	}
	if err.Err != underlying {
		t.Error("wrapped error should be preserved")
	}
}

// TestErrorsIs verifies that errors.Is() works correctly with all sentinel errors.
// This is critical for handler code that uses errors.Is() to determine response codes.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		sentinel error
	}{
		{"NotFound", NewNotFoundError("x"), ErrNotFound},
		{"Validation", NewValidationError("x", "y"), ErrInvalidRequest},
		{"Configuration", NewConfigError("x"), ErrConfiguration},
		{"Auth", NewAuthError("x", nil), ErrAuthentication},
		{"Upstream", NewUpstreamError("x", "y", nil), ErrUpstreamError},
		{"Supplier", NewSupplierError("x", "y", "z", ""), ErrSupplierRejected},
		{"RateLimit", NewRateLimitError("x"), ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%T, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

// TestAPIErrorImplementsError verifies the error interface is properly implemented.
func TestAPIErrorImplementsError(t *testing.T) {
	var err error = &APIError{Code: "TEST", Message: "test"}
	_ = err.Error() // Should compile and not panic

	// Verify it works with fmt.Errorf wrapping
	wrapped := fmt.Errorf("outer: %w", err)
	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Error("errors.As should find *APIError in wrapped error")
	}
}

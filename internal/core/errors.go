// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Input errors
	ErrInvalidSnapshot = &Error{Code: "INVALID_SNAPSHOT", Message: "snapshot has non-positive spot, strike or iv"}
	ErrNoData          = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrNotFound        = &Error{Code: "NOT_FOUND", Message: "resource not found"}

	// Model errors
	ErrModelFailed = &Error{Code: "MODEL_FAILED", Message: "probability model failed"}

	// Provider errors
	ErrProviderFailed    = &Error{Code: "PROVIDER_FAILED", Message: "chain provider failed"}
	ErrProviderExhausted = &Error{Code: "PROVIDER_EXHAUSTED", Message: "all chain providers failed"}

	// Strategy errors
	ErrStrategyInvalid = &Error{Code: "STRATEGY_INVALID", Message: "strategy definition invalid"}

	// Insight errors
	ErrInsightFailed   = &Error{Code: "INSIGHT_FAILED", Message: "insight request failed"}
	ErrInsightDisabled = &Error{Code: "INSIGHT_DISABLED", Message: "insight narration disabled"}

	// Storage errors
	ErrStorageFailed = &Error{Code: "STORAGE_FAILED", Message: "storage operation failed"}

	// Auth errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

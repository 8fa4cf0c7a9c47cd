package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Element and resource errors
	ErrNotFound     = errors.New("resource not found")
	ErrActionFailed = errors.New("action failed")

	// HTTP/Network errors
	ErrConnectionFailed = errors.New("connection failed")
	ErrRequestFailed    = errors.New("request failed")
	ErrInvalidResponse  = errors.New("invalid response")

	// Operation errors
	ErrTimeout            = errors.New("operation timeout")
	ErrContextCanceled    = errors.New("context canceled")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")
)

// BridgeError provides structured error information with context.
// It implements the error interface and supports error wrapping.
type BridgeError struct {
	Op      string // Operation that failed (e.g., "bridge.Click")
	Kind    string // Error kind (e.g., "http", "api", "config")
	Code    string // Server-supplied error code, if any (e.g., "NOT_FOUND")
	Message string // Human-readable message
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *BridgeError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.Code != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.Code, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// NewBridgeError creates a new BridgeError
func NewBridgeError(op, kind string, err error) *BridgeError {
	return &BridgeError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// APIError builds the error for a logical failure reported inside a
// response envelope. A "NOT_FOUND" code maps to ErrNotFound so callers can
// test with errors.Is; everything else maps to ErrRequestFailed and keeps
// the server code for inspection via errors.As.
func APIError(op, message, code string) *BridgeError {
	sentinel := ErrRequestFailed
	if code == "NOT_FOUND" {
		sentinel = ErrNotFound
	}
	return &BridgeError{
		Op:      op,
		Kind:    "api",
		Code:    code,
		Message: message,
		Err:     fmt.Errorf("%s: %w", message, sentinel),
	}
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable checks if an error is retryable.
// Retryable errors are typically transient network or availability issues.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnectionFailed)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration)
}

// ErrorCode extracts the server-supplied error code from an error chain,
// or returns the empty string when none is present.
func ErrorCode(err error) string {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

package common

import (
	"fmt"
	"strings"
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context information
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NetworkError represents network-related errors
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("network error for '%s': %s: %v", e.URL, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("network error for '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// ErrorCollector accumulates multiple errors into one
type ErrorCollector struct {
	errors []error
}

// Add appends an error to the collector, ignoring nil
func (ec *ErrorCollector) Add(err error) {
	if err != nil {
		ec.errors = append(ec.errors, err)
	}
}

// HasErrors reports whether any error was collected
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// Error returns the combined error, or nil if none were collected
func (ec *ErrorCollector) Error() error {
	if len(ec.errors) == 0 {
		return nil
	}
	if len(ec.errors) == 1 {
		return ec.errors[0]
	}

	var messages []string
	for _, err := range ec.errors {
		messages = append(messages, err.Error())
	}
	return fmt.Errorf("multiple errors occurred: %s", strings.Join(messages, "; "))
}

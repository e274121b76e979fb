package connector

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrorCategory represents different categories of connector errors.
type ErrorCategory string

const (
	ErrorCategoryBackendUnreachable ErrorCategory = "backend_unreachable"
	ErrorCategoryParseFailure       ErrorCategory = "parse_failure"
	ErrorCategoryUnsupported        ErrorCategory = "unsupported_operation"
	ErrorCategoryUnknown            ErrorCategory = "unknown"
)

// ConnectorError provides error information for connector operations.
type ConnectorError struct {
	Operation string        // The operation that failed
	Backend   string        // Connector name
	Category  ErrorCategory // Error category
	Message   string        // Human-readable message
	Stderr    string        // Error stream of the query executable, if any
	Cause     error         // Underlying error
}

func (e *ConnectorError) Error() string {
	var parts []string

	if e.Backend != "" {
		parts = append(parts, fmt.Sprintf("%s %s failed", e.Backend, e.Operation))
	} else {
		parts = append(parts, fmt.Sprintf("%s failed", e.Operation))
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Stderr != "" && e.Stderr != e.Message {
		parts = append(parts, fmt.Sprintf("stderr: %s", e.Stderr))
	}

	return strings.Join(parts, " - ")
}

func (e *ConnectorError) Unwrap() error {
	return e.Cause
}

// GetCategory returns the error category.
func (e *ConnectorError) GetCategory() ErrorCategory {
	return e.Category
}

// NewBackendUnreachable reports a backend that could not be queried.
func NewBackendUnreachable(backend, operation, message string, cause error) *ConnectorError {
	return &ConnectorError{
		Operation: operation,
		Backend:   backend,
		Category:  ErrorCategoryBackendUnreachable,
		Message:   message,
		Cause:     cause,
	}
}

// NewUnsupported reports an operation the backend does not implement.
func NewUnsupported(backend, operation string) *ConnectorError {
	return &ConnectorError{
		Operation: operation,
		Backend:   backend,
		Category:  ErrorCategoryUnsupported,
		Message:   "operation is not supported by this backend",
	}
}

// NewParseFailure reports backend output that could not be decoded at all.
func NewParseFailure(backend, operation, message string, cause error) *ConnectorError {
	return &ConnectorError{
		Operation: operation,
		Backend:   backend,
		Category:  ErrorCategoryParseFailure,
		Message:   message,
		Cause:     cause,
	}
}

// WrapError wraps an error with operation context. Errors that are already
// categorised keep their category; anything else is classified from its type.
// The error passed in is never modified, since connectors cache and share it.
func WrapError(backend, operation string, err error) error {
	if err == nil {
		return nil
	}

	var connErr *ConnectorError
	if errors.As(err, &connErr) {
		if connErr.Operation != "" && connErr.Backend != "" {
			return connErr
		}
		wrapped := *connErr
		if wrapped.Operation == "" {
			wrapped.Operation = operation
		}
		if wrapped.Backend == "" {
			wrapped.Backend = backend
		}
		return &wrapped
	}

	return &ConnectorError{
		Operation: operation,
		Backend:   backend,
		Category:  categorizeError(err),
		Message:   err.Error(),
		Stderr:    stderrOf(err),
		Cause:     err,
	}
}

// stderrOf extracts the error stream captured for a failed command.
func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}

// categorizeError classifies errors that did not originate in this package.
func categorizeError(err error) ErrorCategory {
	var exitErr *exec.ExitError
	var execErr *exec.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &exitErr),
		errors.As(err, &execErr):
		return ErrorCategoryBackendUnreachable
	default:
		return ErrorCategoryUnknown
	}
}

// GetErrorCategory returns the category of an error.
func GetErrorCategory(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryUnknown
	}

	var connErr *ConnectorError
	if errors.As(err, &connErr) {
		return connErr.GetCategory()
	}

	return categorizeError(err)
}

// IsBackendUnreachable checks if an error indicates the backend could not be queried.
func IsBackendUnreachable(err error) bool {
	return GetErrorCategory(err) == ErrorCategoryBackendUnreachable
}

// IsUnsupported checks if an error indicates an unimplemented backend operation.
func IsUnsupported(err error) bool {
	return GetErrorCategory(err) == ErrorCategoryUnsupported
}

// IsParseFailure checks if an error indicates undecodable backend output.
func IsParseFailure(err error) bool {
	return GetErrorCategory(err) == ErrorCategoryParseFailure
}

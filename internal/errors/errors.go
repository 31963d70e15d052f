// Package errors provides a lightweight structured error type (ToolError)
// for category-based classification and exit code mapping in the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a bookctl error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Document and execution errors
	CategoryNotebook   ErrorCategory = "notebook"
	CategoryExecution  ErrorCategory = "execution"
	CategoryLint       ErrorCategory = "lint"
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ToolError is a structured error with category, severity and context.
type ToolError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ToolError
type ContextFields map[string]any

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ToolError) WithContext(key string, value any) *ToolError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ToolError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ToolError {
	return &ToolError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ToolError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ToolError {
	return &ToolError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error (or anything it wraps) belongs to a category
func IsCategory(err error, category ErrorCategory) bool {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a ToolError
func GetCategory(err error) ErrorCategory {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.Category
	}
	return CategoryInternal
}

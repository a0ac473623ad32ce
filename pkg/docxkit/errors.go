package docxkit

import (
	"errors"
	"fmt"
	"strings"
)

// IOError reports a failure reading or writing a file on disk
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("io error during %s of '%s': %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("io error during %s of '%s'", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new io error
func NewIOError(op, path string, cause error) error {
	return &IOError{Op: op, Path: path, Cause: cause}
}

// PackagingError reports a structurally broken package: a missing part,
// a dangling relationship or an archive that cannot be read.
type PackagingError struct {
	Part    string
	Message string
	Cause   error
}

func (e *PackagingError) Error() string {
	var sb strings.Builder
	sb.WriteString("packaging error")
	if e.Part != "" {
		fmt.Fprintf(&sb, " in '%s'", e.Part)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *PackagingError) Unwrap() error {
	return e.Cause
}

// NewPackagingError creates a new packaging error
func NewPackagingError(part, message string, cause error) error {
	return &PackagingError{Part: part, Message: message, Cause: cause}
}

// NotFoundError reports a missing input file
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: '%s'", e.Path)
}

// ValidationIssue represents a single validation problem
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents multiple validation issues
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}

	parts := []string{fmt.Sprintf("%d validation issues:", len(e.Issues))}
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// Add records an issue
func (e *ValidationError) Add(field, format string, args ...interface{}) {
	e.Issues = append(e.Issues, ValidationIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns the validation error or nil if no issue was recorded
func (e *ValidationError) Err() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{errors: make([]error, 0)}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	parts := []string{fmt.Sprintf("%d errors occurred:", len(m.errors))}
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// IsIOError checks if an error is, or wraps, an io error
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// IsPackagingError checks if an error is, or wraps, a packaging error
func IsPackagingError(err error) bool {
	var target *PackagingError
	return errors.As(err, &target)
}

// IsNotFoundError checks if an error is, or wraps, a not-found error
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidationError checks if an error is, or wraps, a validation error
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

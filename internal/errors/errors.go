// Package errors provides structured error types for the Plantaxis system.
// All errors include a category, code, message, and retryable flag for
// consistent error handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryDataset   ErrorCategory = "DATASET"
	ErrCategoryStorage   ErrorCategory = "STORAGE"
	ErrCategoryFilter    ErrorCategory = "FILTER"
	ErrCategoryAggregate ErrorCategory = "AGGREGATE"
	ErrCategoryExplorer  ErrorCategory = "EXPLORER"
	ErrCategoryInternal  ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Dataset codes
	CodeDatasetNotFound = "DATASET_NOT_FOUND"
	CodeDatasetCorrupt  = "DATASET_CORRUPT"
	CodeDatasetAbsent   = "DATASET_ABSENT" // optional dataset missing

	// Storage codes
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// Filter codes
	CodeInvalidCriteria = "INVALID_CRITERIA"

	// Aggregate codes
	CodeUnknownView    = "UNKNOWN_VIEW"
	CodeUnknownMapType = "UNKNOWN_MAP_TYPE"

	// Explorer codes
	CodeQueryRejected = "QUERY_REJECTED"
	CodeQueryFailed   = "QUERY_FAILED"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// PlantaxisError is the structured error type used throughout the system.
type PlantaxisError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *PlantaxisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *PlantaxisError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *PlantaxisError) Is(target error) bool {
	var t *PlantaxisError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new PlantaxisError.
func New(category ErrorCategory, code, message string) *PlantaxisError {
	return &PlantaxisError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new PlantaxisError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *PlantaxisError {
	return &PlantaxisError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *PlantaxisError) WithDetails(details map[string]interface{}) *PlantaxisError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var pe *PlantaxisError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a PlantaxisError.
func GetCategory(err error) ErrorCategory {
	var pe *PlantaxisError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a PlantaxisError.
func GetCode(err error) string {
	var pe *PlantaxisError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// isRetryable determines if an error code is retryable. Only storage
// downloads are worth retrying: everything else is local computation over
// already-loaded in-memory data.
func isRetryable(category ErrorCategory, code string) bool {
	return category == ErrCategoryStorage && code == CodeDownloadFailed
}

// Convenience constructors for common errors.

func NewDatasetError(code, message string, cause error) *PlantaxisError {
	return Wrap(ErrCategoryDataset, code, message, cause)
}

func NewStorageError(code, message string, cause error) *PlantaxisError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewFilterError(message string) *PlantaxisError {
	return New(ErrCategoryFilter, CodeInvalidCriteria, message)
}

func NewExplorerError(code, message string, cause error) *PlantaxisError {
	return Wrap(ErrCategoryExplorer, code, message, cause)
}

func NewInternalError(message string, cause error) *PlantaxisError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}

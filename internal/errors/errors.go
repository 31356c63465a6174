// Package errors defines the typed error taxonomy for the reporting
// pipeline. Every failure class the batch can hit maps to one ErrorType;
// all of them are fatal at the point they occur.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the class of a pipeline error
type ErrorType string

const (
	ErrTypeMissingInputFile  ErrorType = "MISSING_INPUT_FILE"
	ErrTypeSchemaViolation   ErrorType = "SCHEMA_VIOLATION"
	ErrTypeMissingData       ErrorType = "MISSING_DATA"
	ErrTypeInsufficientData  ErrorType = "INSUFFICIENT_DATA"
	ErrTypeUnknownDepartment ErrorType = "UNKNOWN_DEPARTMENT_CODE"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeConfig            ErrorType = "CONFIG"
	ErrTypeRender            ErrorType = "RENDER"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper constructors for the pipeline failure classes

// NewMissingInputFileError signals that a required source file is absent
func NewMissingInputFileError(path string, cause error) *AppError {
	return NewAppError(ErrTypeMissingInputFile, fmt.Sprintf("required input file %s not found", path), cause).
		WithContext("path", path)
}

// NewSchemaViolationError signals wrong columns or malformed cell values
func NewSchemaViolationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchemaViolation, message, cause)
}

// NewMissingDataError signals that a data point required by a metric is absent
func NewMissingDataError(message string) *AppError {
	return NewAppError(ErrTypeMissingData, message, nil)
}

// NewInsufficientDataError signals too few paired points for a correlation
func NewInsufficientDataError(message string) *AppError {
	return NewAppError(ErrTypeInsufficientData, message, nil)
}

// NewUnknownDepartmentError signals a department code outside the fixed set
func NewUnknownDepartmentError(code string) *AppError {
	return NewAppError(ErrTypeUnknownDepartment, fmt.Sprintf("unknown department code %q", code), nil).
		WithContext("code", code)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewRenderError creates a figure/dashboard rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

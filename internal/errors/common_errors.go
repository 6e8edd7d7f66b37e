package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeMissingSourceFile     ErrorType = "MISSING_SOURCE_FILE"
	ErrTypeInvalidPeriod         ErrorType = "INVALID_PERIOD"
	ErrTypeInvalidTimeIndex      ErrorType = "INVALID_TIME_INDEX"
	ErrTypeUnsupportedColumnType ErrorType = "UNSUPPORTED_COLUMN_TYPE"
	ErrTypeTypeMismatch          ErrorType = "TYPE_MISMATCH"
	ErrTypeNonUniqueIndex        ErrorType = "NON_UNIQUE_INDEX"
	ErrTypeDatasetCleaning       ErrorType = "DATASET_CLEANING"
	ErrTypeUnsupportedFormat     ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeStorage               ErrorType = "STORAGE"
	ErrTypeNotFound              ErrorType = "NOT_FOUND"
	ErrTypeConfig                ErrorType = "CONFIG"
)

// Sentinels for errors.Is; an AppError matches the sentinel of its type.
var (
	ErrMissingSourceFile     = &AppError{Type: ErrTypeMissingSourceFile, Message: "source file does not exist"}
	ErrInvalidPeriod         = &AppError{Type: ErrTypeInvalidPeriod, Message: "period is not comparable"}
	ErrInvalidTimeIndex      = &AppError{Type: ErrTypeInvalidTimeIndex, Message: "unknown time index kind"}
	ErrUnsupportedColumnType = &AppError{Type: ErrTypeUnsupportedColumnType, Message: "unsupported column type"}
	ErrTypeMismatch          = &AppError{Type: ErrTypeTypeMismatch, Message: "column violates its declared type"}
	ErrNonUniqueIndex        = &AppError{Type: ErrTypeNonUniqueIndex, Message: "index is not unique"}
	ErrDatasetCleaning       = &AppError{Type: ErrTypeDatasetCleaning, Message: "dataset cleaning failed"}
	ErrUnsupportedFormat     = &AppError{Type: ErrTypeUnsupportedFormat, Message: "unsupported file format"}
	ErrStorage               = &AppError{Type: ErrTypeStorage, Message: "storage operation failed"}
	ErrNotFound              = &AppError{Type: ErrTypeNotFound, Message: "not found"}
	ErrConfig                = &AppError{Type: ErrTypeConfig, Message: "invalid configuration"}
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

// Is matches any AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
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

// Helper functions for common error types

// NewMissingSourceFileError names a raw file that does not exist
func NewMissingSourceFileError(path string) *AppError {
	return NewAppError(ErrTypeMissingSourceFile, fmt.Sprintf("source file %s does not exist", path), nil).
		WithContext("path", path)
}

// NewInvalidPeriodError reports a period that cannot be compared as an integer
func NewInvalidPeriodError(period interface{}, cause error) *AppError {
	return NewAppError(ErrTypeInvalidPeriod, fmt.Sprintf("period %v is not comparable", period), cause).
		WithContext("period", period)
}

// NewInvalidTimeIndexError reports an unknown panel time index kind
func NewInvalidTimeIndexError(kind string) *AppError {
	return NewAppError(ErrTypeInvalidTimeIndex, fmt.Sprintf("time index kind %q is not supported", kind), nil).
		WithContext("kind", kind)
}

// NewUnsupportedColumnTypeError reports a column whose storage kind cannot be handled
func NewUnsupportedColumnTypeError(column, kind string) *AppError {
	return NewAppError(ErrTypeUnsupportedColumnType, fmt.Sprintf("column %s has unsupported type %s", column, kind), nil).
		WithContext("column", column)
}

// NewTypeMismatchError reports a column that violated its declared type contract
func NewTypeMismatchError(column string, message string) *AppError {
	return NewAppError(ErrTypeTypeMismatch, fmt.Sprintf("column %s: %s", column, message), nil).
		WithContext("column", column)
}

// NewNonUniqueIndexError reports a repeated (respondent, period) key
func NewNonUniqueIndexError(key string) *AppError {
	return NewAppError(ErrTypeNonUniqueIndex, fmt.Sprintf("index is not unique, key %s repeats", key), nil).
		WithContext("key", key)
}

// NewDatasetCleaningError wraps any failure raised while cleaning a dataset
func NewDatasetCleaningError(dataset string, cause error) *AppError {
	return NewAppError(ErrTypeDatasetCleaning,
		fmt.Sprintf("an error occurred while cleaning the dataset %s", dataset), cause).
		WithContext("dataset", dataset)
}

// NewUnsupportedFormatError reports a file extension without a codec
func NewUnsupportedFormatError(path string) *AppError {
	return NewAppError(ErrTypeUnsupportedFormat, fmt.Sprintf("no codec for %s", path), nil).
		WithContext("path", path)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// DatasetOf returns the dataset name carried by a cleaning error, if any
func DatasetOf(err error) (string, bool) {
	for err != nil {
		if ae, ok := err.(*AppError); ok && ae.Type == ErrTypeDatasetCleaning {
			name, ok := ae.Context["dataset"].(string)
			return name, ok
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}

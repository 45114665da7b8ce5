package errors

import (
	"errors"
	"fmt"
)

// Pipeline error kinds. Stages wrap these so callers can match with errors.Is.
var (
	ErrInvalidName          = errors.New("invalid name")
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrMissingColumn        = errors.New("missing column")
	ErrInvalidColumn        = errors.New("invalid column")
	ErrEmptyStatisticsInput = errors.New("empty statistics input")
	ErrMalformedDataset     = errors.New("malformed dataset")
)

// Session error kinds
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoDataset       = errors.New("no dataset uploaded")
	ErrNotCleaned      = errors.New("dataset has not been cleaned")
	ErrUnknownChart    = errors.New("unknown chart")
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeData       ErrorType = "DATA"
	ErrTypeSession    ErrorType = "SESSION"
	ErrTypeExport     ErrorType = "EXPORT"
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

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// MissingColumn reports that a required column is absent
func MissingColumn(column string) *AppError {
	return NewAppError(ErrTypeData, fmt.Sprintf("column %q not found", column), ErrMissingColumn).
		WithContext("column", column)
}

// InvalidColumn reports that a column cannot be used for the requested operation
func InvalidColumn(column, reason string) *AppError {
	return NewAppError(ErrTypeData, fmt.Sprintf("column %q %s", column, reason), ErrInvalidColumn).
		WithContext("column", column)
}

// EmptyStatisticsInput reports that a column has no values to summarise
func EmptyStatisticsInput(column string) *AppError {
	return NewAppError(ErrTypeData, fmt.Sprintf("column %q has no values", column), ErrEmptyStatisticsInput).
		WithContext("column", column)
}

// UnsupportedFormat reports an upload whose extension is not accepted
func UnsupportedFormat(filename string) *AppError {
	return NewAppError(ErrTypeValidation, fmt.Sprintf("file %q is not a .csv or .json file", filename), ErrUnsupportedFormat).
		WithContext("filename", filename)
}

// MalformedDataset reports a file whose content could not be parsed
func MalformedDataset(filename string, cause error) *AppError {
	return NewParsingError(fmt.Sprintf("cannot parse %q", filename), errors.Join(ErrMalformedDataset, cause)).
		WithContext("filename", filename)
}

// InvalidName reports a user name that failed validation
func InvalidName(name string) *AppError {
	return NewAppError(ErrTypeValidation, "name must contain at least 3 alphabetic characters", ErrInvalidName).
		WithContext("name", name)
}

// UnknownChart reports a chart kind that does not exist or is not available
// in the current chart mode
func UnknownChart(kind string) *AppError {
	return NewAppError(ErrTypeSession, fmt.Sprintf("chart %q is not available", kind), ErrUnknownChart).
		WithContext("chart", kind)
}

// SessionNotFound reports an unknown or expired session id
func SessionNotFound(id string) *AppError {
	return NewAppError(ErrTypeSession, "session not found or expired", ErrSessionNotFound).
		WithContext("session_id", id)
}

// NoDataset reports an action that needs an uploaded dataset
func NoDataset(action string) *AppError {
	return NewAppError(ErrTypeSession, "upload a dataset first", ErrNoDataset).
		WithContext("action", action)
}

// NotCleaned reports an action that needs the cleaned dataset
func NotCleaned(action string) *AppError {
	return NewAppError(ErrTypeSession, "clean the dataset first", ErrNotCleaned).
		WithContext("action", action)
}

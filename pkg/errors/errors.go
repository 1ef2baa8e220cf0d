package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the failure kinds a generation can end with
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"
	ErrCanceled ErrorCode = "CANCELED"

	// Definition errors
	ErrMissingDefinition       ErrorCode = "MISSING_DEFINITION"
	ErrInvalidDefinition       ErrorCode = "INVALID_DEFINITION"
	ErrUnsupportedVariableType ErrorCode = "UNSUPPORTED_VARIABLE_TYPE"

	// Answer collection errors
	ErrInvalidAnswer ErrorCode = "INVALID_ANSWER"
	ErrPrompt        ErrorCode = "PROMPT"

	// Generation errors
	ErrRender       ErrorCode = "RENDER"
	ErrBinaryDecode ErrorCode = "BINARY_DECODE"
	ErrIO           ErrorCode = "IO"

	// Collaborator errors
	ErrSourceAcquisition ErrorCode = "SOURCE_ACQUISITION"
	ErrConfigLoad        ErrorCode = "CONFIG_LOAD"
)

// Detail keys shared by the packages that attach context to errors
const (
	DetailPath     = "path"
	DetailRule     = "rule"
	DetailVariable = "variable"
	DetailSource   = "source"
)

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error.
// Callers must only pass a non-nil err when the result is returned as an error.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithPath records the offending path. Most IO, render and decode errors carry one.
func (e *Error) WithPath(path string) *Error {
	return e.WithDetail(DetailPath, path)
}

// AddDetail attaches a detail to the first Error in err's chain and returns
// err unchanged otherwise.
func AddDetail(err error, key string, value interface{}) error {
	var kerr *Error
	if errors.As(err, &kerr) {
		kerr.WithDetail(key, value)
	}
	return err
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Details
	}
	return nil
}

// PathOf returns the path detail of an error, or "" when it has none
func PathOf(err error) string {
	details := GetErrorDetails(err)
	if details == nil {
		return ""
	}
	path, _ := details[DetailPath].(string)
	return path
}

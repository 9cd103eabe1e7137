package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Installation errors
	ErrInvalidIdentifier     ErrorCode = "INVALID_IDENTIFIER"
	ErrAlreadyInstalled      ErrorCode = "ALREADY_INSTALLED"
	ErrNotFound              ErrorCode = "NOT_FOUND"
	ErrSourceUnreadable      ErrorCode = "SOURCE_UNREADABLE"
	ErrDestinationUnwritable ErrorCode = "DESTINATION_UNWRITABLE"
	ErrInsufficientSpace     ErrorCode = "INSUFFICIENT_SPACE"

	// Registry errors
	ErrRegistryCorrupt ErrorCode = "REGISTRY_CORRUPT"
	ErrLockContention  ErrorCode = "LOCK_CONTENTION"
)

// LbiError represents a structured error with code and details
type LbiError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LbiError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LbiError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LbiError) Is(target error) bool {
	var targetErr *LbiError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LbiError with the given code and message
func New(code ErrorCode, message string) *LbiError {
	return &LbiError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LbiError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LbiError {
	return &LbiError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LbiError
func Wrap(err error, code ErrorCode, message string) *LbiError {
	if err == nil {
		return nil
	}
	return &LbiError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LbiError {
	if err == nil {
		return nil
	}
	return &LbiError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LbiError) WithDetail(key string, value interface{}) *LbiError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LbiError) WithDetails(details map[string]interface{}) *LbiError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code.
// Only the outermost LbiError in the chain is considered.
func IsErrorCode(err error, code ErrorCode) bool {
	var lbiErr *LbiError
	if errors.As(err, &lbiErr) {
		return lbiErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LbiError
func GetErrorCode(err error) ErrorCode {
	var lbiErr *LbiError
	if errors.As(err, &lbiErr) {
		return lbiErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LbiError
func GetErrorDetails(err error) map[string]interface{} {
	var lbiErr *LbiError
	if errors.As(err, &lbiErr) {
		return lbiErr.Details
	}
	return nil
}

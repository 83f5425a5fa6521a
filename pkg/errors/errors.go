package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string value
// suitable for testing and log filtering.
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Environment and path errors
	ErrEnvironment   ErrorCode = "ENVIRONMENT"
	ErrPathTraversal ErrorCode = "PATH_TRAVERSAL"

	// Secret errors
	ErrSecretFormat       ErrorCode = "SECRET_FORMAT"
	ErrNoCredentialSource ErrorCode = "NO_CREDENTIAL_SOURCE"

	// Phase errors
	ErrIncompleteStage ErrorCode = "INCOMPLETE_STAGE"
	ErrMissingArtifact ErrorCode = "MISSING_ARTIFACT"
	ErrNoRecoveryState ErrorCode = "NO_RECOVERY_STATE"
	ErrNoConfirmation  ErrorCode = "NO_CONFIRMATION"

	// Filesystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// RigupError is a structured error carrying a code, a message, and
// optional key/value details for diagnostics.
type RigupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RigupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RigupError) Unwrap() error {
	return e.Wrapped
}

// Is matches two RigupErrors by code
func (e *RigupError) Is(target error) bool {
	var targetErr *RigupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RigupError with the given code and message
func New(code ErrorCode, message string) *RigupError {
	return &RigupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RigupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RigupError {
	return &RigupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RigupError. Returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) *RigupError {
	if err == nil {
		return nil
	}
	return &RigupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RigupError {
	if err == nil {
		return nil
	}
	return &RigupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RigupError) WithDetail(key string, value interface{}) *RigupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rerr *RigupError
	if errors.As(err, &rerr) {
		return rerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown
// if the error is not a RigupError.
func GetErrorCode(err error) ErrorCode {
	var rerr *RigupError
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return ErrUnknown
}

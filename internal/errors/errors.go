package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrNotFound      ErrorType = "NOT_FOUND"
	ErrInvalidInput  ErrorType = "INVALID_INPUT"
	ErrUpstream      ErrorType = "UPSTREAM"
	ErrConfiguration ErrorType = "CONFIGURATION"
	ErrPersistence   ErrorType = "PERSISTENCE"
	ErrInternal      ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// TypeOf returns the type of the outermost AppError in err's chain, or
// ErrInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrInternal
}

func isType(err error, errType ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == errType
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return isType(err, ErrNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return isType(err, ErrInvalidInput)
}

// IsValidationError checks if the error is a validation error
// This is an alias for IsInvalidInput since validation errors are a type of invalid input error
func IsValidationError(err error) bool {
	return IsInvalidInput(err)
}

// IsUpstream checks if the error came from the code host
func IsUpstream(err error) bool {
	return isType(err, ErrUpstream)
}

// IsConfiguration checks if the error is caused by missing guild setup
func IsConfiguration(err error) bool {
	return isType(err, ErrConfiguration)
}

// IsPersistence checks if the error is a storage error
func IsPersistence(err error) bool {
	return isType(err, ErrPersistence)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return New(ErrNotFound, message, err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// NewUpstreamError creates a new upstream fetch error
func NewUpstreamError(message string, err error) *AppError {
	return New(ErrUpstream, message, err)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, err error) *AppError {
	return New(ErrConfiguration, message, err)
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, err error) *AppError {
	return New(ErrPersistence, message, err)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

// UserMessage renders err as the single line shown to the person who issued
// a command. Internal details stay in the logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return "Something went wrong while handling the request."
	}
	switch appErr.Type {
	case ErrInvalidInput, ErrConfiguration, ErrNotFound:
		return appErr.Message
	case ErrUpstream:
		return "Could not fetch data from GitHub: " + appErr.Message
	case ErrPersistence:
		return "Could not save the change: " + appErr.Message
	default:
		return "Something went wrong while handling the request."
	}
}

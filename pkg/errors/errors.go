package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeFilesystem  ErrorType = "filesystem"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a provider or filesystem error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error
func New(errorType ErrorType, message string, code int) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Code:    code,
	}
}

// IsType reports whether err is (or wraps) an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}

// IsFatal reports whether an error kind must abort the whole run.
// Only profile-level lookups and authentication failures are fatal;
// item-level failures are isolated by the caller.
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNotFound, ErrorTypeAuth:
		return true
	default:
		return false
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	case ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeParsing, ErrorTypeFilesystem:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}

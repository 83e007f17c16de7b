package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Client errors
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeShuttingDown     ErrorCode = "SHUTTING_DOWN"

	// Documentation run errors
	ErrCodeAuthFailed       ErrorCode = "AUTH_FAILED"
	ErrCodeTreeListFailed   ErrorCode = "TREE_LIST_FAILED"
	ErrCodeFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrCodeCommitFailed     ErrorCode = "COMMIT_FAILED"

	// Server errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCodeForError(code),
	}
}

// Wrap wraps an existing error with application context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCodeForError(code),
		Err:        err,
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: getStatusCodeForError(code),
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// getStatusCodeForError maps error codes to HTTP status codes
func getStatusCodeForError(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeShuttingDown:
		return http.StatusServiceUnavailable
	case ErrCodeAuthFailed, ErrCodeTreeListFailed, ErrCodeFetchFailed, ErrCodeGenerationFailed, ErrCodeCommitFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors for convenience

// InvalidRequest creates an invalid request error
func InvalidRequest(message string) *AppError {
	return New(ErrCodeInvalidRequest, message)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) *AppError {
	return New(ErrCodeMethodNotAllowed, fmt.Sprintf("Method %s not allowed", method))
}

// PayloadTooLarge creates a payload too large error
func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, fmt.Sprintf("Request body exceeds %d bytes", limit))
}

// InternalError creates an internal server error
func InternalError(err error) *AppError {
	return Wrap(err, ErrCodeInternalError, "Internal server error")
}

// AuthFailed creates an installation authentication error
func AuthFailed(err error) *AppError {
	return Wrap(err, ErrCodeAuthFailed, "Failed to authenticate GitHub installation")
}

// TreeListFailed creates a repository tree listing error
func TreeListFailed(err error) *AppError {
	return Wrap(err, ErrCodeTreeListFailed, "Failed to list repository tree")
}

// FetchFailed wraps an aborted candidate fetch
func FetchFailed(err error) *AppError {
	return Wrap(err, ErrCodeFetchFailed, "Failed to fetch repository files")
}

// ShuttingDown rejects work that arrives after shutdown began
func ShuttingDown() *AppError {
	return New(ErrCodeShuttingDown, "Server is shutting down")
}

// GenerationFailed creates a documentation generation error
func GenerationFailed(err error) *AppError {
	return Wrap(err, ErrCodeGenerationFailed, "Failed to generate documentation")
}

// CommitFailed creates a documentation commit error
func CommitFailed(err error) *AppError {
	return Wrap(err, ErrCodeCommitFailed, "Failed to commit documentation")
}

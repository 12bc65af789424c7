// Package errors provides standardized error handling for the query assistant.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
	ErrCodeClassificationAmbiguous ErrorCode = "CLASSIFICATION_AMBIGUOUS"
	ErrCodeUnsupportedDomain       ErrorCode = "UNSUPPORTED_DOMAIN"
	ErrCodeSecurityRejected        ErrorCode = "SECURITY_REJECTED"
	ErrCodeQueryExecutionFailed    ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout            ErrorCode = "QUERY_TIMEOUT"
	ErrCodeHistoryReadFailed       ErrorCode = "HISTORY_READ_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps error codes to transport status codes. Security rejections
// are deliberately a generic 400 so nothing about the rejected SQL leaks out.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidRequest, ErrCodeSecurityRejected:
		return http.StatusBadRequest
	case ErrCodeUnsupportedDomain:
		return http.StatusUnprocessableEntity
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeQueryExecutionFailed, ErrCodeHistoryReadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsStandard extracts a StandardError from an error chain, nil when absent.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return nil
}

// NewInvalidRequestError flags a request rejected at the boundary.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedDomainError signals that no SQL template exists for the
// classified domain; the builder refuses rather than guessing.
func NewUnsupportedDomainError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedDomain,
		Message:   "Could not map the question to a known data domain",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSecurityRejectedError signals that generated or supplied SQL failed the
// guard. The offending SQL text is never attached.
func NewSecurityRejectedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSecurityRejected,
		Message:   "Query was rejected by the security validator",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError wraps a datastore failure; retryable.
func NewQueryExecutionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Query execution failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError marks a deadline hit while executing; retryable.
func NewQueryTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Query timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryReadError wraps a conversation history lookup failure.
func NewHistoryReadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryReadFailed,
		Message:   "Could not load conversation history",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Package errors provides the typed error taxonomy for the intake pipeline.
// Handlers decide responses from error kinds, never from message text.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind classifies a failure by which capability produced it.
type Kind string

const (
	KindMalformedRequest Kind = "MALFORMED_REQUEST"
	KindValidation       Kind = "VALIDATION"
	KindStorage          Kind = "STORAGE"
	KindDelivery         Kind = "DELIVERY"
	KindAuthorization    Kind = "AUTHORIZATION"
	KindRateLimited      Kind = "RATE_LIMITED"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMultipartDecodeFailed ErrorCode = "MULTIPART_DECODE_FAILED"

	ErrCodeMissingRequiredFields ErrorCode = "MISSING_REQUIRED_FIELDS"
	ErrCodeFileTypeRejected      ErrorCode = "FILE_TYPE_REJECTED"
	ErrCodeFileTooLarge          ErrorCode = "FILE_TOO_LARGE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationAuthFailed ErrorCode = "NOTIFICATION_AUTH_FAILED"
	ErrCodeNotificationTimeout    ErrorCode = "NOTIFICATION_TIMEOUT"

	ErrCodeAdminUnauthorized ErrorCode = "ADMIN_UNAUTHORIZED"
	ErrCodeSubmissionLimited ErrorCode = "SUBMISSION_RATE_LIMITED"
)

// StandardError represents a structured application error. Message is safe to
// show to the caller; Details is internal and only ever logged.
type StandardError struct {
	Kind      Kind                   `json:"kind"`
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

// HTTPStatus maps an error kind to the response status for the HTTP boundary.
func (e *StandardError) HTTPStatus() int {
	switch e.Kind {
	case KindMalformedRequest, KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// Error Constructors
// ==========================

// NewMalformedRequestError wraps a multipart decode failure.
func NewMalformedRequestError(err error) *StandardError {
	return &StandardError{
		Kind:      KindMalformedRequest,
		Code:      ErrCodeMultipartDecodeFailed,
		Message:   "Request body could not be decoded as multipart form data",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFieldsError names every required field absent from the submission.
func NewMissingFieldsError(fields []string) *StandardError {
	return &StandardError{
		Kind:      KindValidation,
		Code:      ErrCodeMissingRequiredFields,
		Message:   fmt.Sprintf("All required fields must be filled in, including the resume. Missing: %s", strings.Join(fields, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"missingFields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewFileRejectedError creates a non-retryable file gate error. The code
// distinguishes type from size rejections; reason is user-facing.
func NewFileRejectedError(code ErrorCode, reason string) *StandardError {
	return &StandardError{
		Kind:      KindValidation,
		Code:      code,
		Message:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable storage error with a generic user message.
func NewStorageError(code ErrorCode, err error) *StandardError {
	return &StandardError{
		Kind:      KindStorage,
		Code:      code,
		Message:   "Could not process your application right now. Please try again later.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryError creates a retryable delivery error with a generic user message.
func NewDeliveryError(code ErrorCode, err error) *StandardError {
	return &StandardError{
		Kind:      KindDelivery,
		Code:      code,
		Message:   "Could not process your application right now. Please try again later.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthorizationError creates a non-retryable admin authorization error.
func NewAuthorizationError(details string) *StandardError {
	return &StandardError{
		Kind:      KindAuthorization,
		Code:      ErrCodeAdminUnauthorized,
		Message:   "Authentication required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a non-retryable duplicate-submission error.
func NewRateLimitedError(details string) *StandardError {
	return &StandardError{
		Kind:      KindRateLimited,
		Code:      ErrCodeSubmissionLimited,
		Message:   "An application from this address was received recently. Please wait before submitting again.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// Normalize ensures any error is a StandardError. Unknown errors become an
// opaque storage-kind failure so nothing internal leaks to the caller.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Kind:      KindStorage,
		Code:      "INTERNAL_ERROR",
		Message:   "Could not process your application right now. Please try again later.",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetErrorCategory returns the category of the error code for log grouping.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "FILE") || strings.Contains(codeStr, "MISSING") || strings.Contains(codeStr, "MULTIPART"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ADMIN"):
		return "AUTH"
	default:
		return "OTHER"
	}
}

// Package errors provides standardized error handling for the voice dispatch pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingCaller ErrorCode = "MISSING_CALLER"

	ErrCodeEmptyTranscript     ErrorCode = "EMPTY_TRANSCRIPT"
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	ErrCodeModelOverloaded     ErrorCode = "MODEL_OVERLOADED"

	ErrCodeIntentParsingFailed ErrorCode = "INTENT_PARSING_FAILED"

	ErrCodeNoMatch       ErrorCode = "NO_MATCH"
	ErrCodeTaskNotFound  ErrorCode = "TASK_NOT_FOUND"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"

	ErrCodeStoreQueryFailed  ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreInsertFailed ErrorCode = "STORE_INSERT_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingCallerError creates a non-retryable validation error for a
// request without caller identity.
func NewMissingCallerError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCaller,
		Message:   "Missing caller identity",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyTranscriptError marks a transcription call that produced no text.
func NewEmptyTranscriptError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyTranscript,
		Message:   "Empty transcription received",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranscriptionFailedError wraps a failed speech-to-text call.
func NewTranscriptionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranscriptionFailed,
		Message:   "Transcription failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelOverloadedError creates a retryable generative-backend error.
func NewModelOverloadedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelOverloaded,
		Message:   "Model is currently overloaded. Please try again in a few minutes.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntentParsingFailedError wraps an unusable AI classification response.
func NewIntentParsingFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntentParsingFailed,
		Message:   "AI intent response could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoMatchError marks a fuzzy resolution that found nothing.
func NewNoMatchError(candidate string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoMatch,
		Message:   fmt.Sprintf("No item found matching %q", candidate),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTaskNotFoundError marks a lookup by id that found no record.
func NewTaskNotFoundError(taskID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTaskNotFound,
		Message:   "Task not found",
		Details:   fmt.Sprintf("taskId: %s", taskID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError marks a status outside the closed enum.
func NewInvalidStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Invalid status. Must be: pending, in-progress, or completed",
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable record-store read error.
func NewStoreQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Record store query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreInsertFailedError creates a retryable record-store write error.
func NewStoreInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreInsertFailed,
		Message:   "Record store write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError wraps a failed assignment notification.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification send failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Package errors provides the standardized error codes surfaced at the HTTP edge
// and recorded in interaction diagnostics.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal for the request: the only codes that produce non-200 responses.
	ErrCodeAIUnavailable      ErrorCode = "AI_UNAVAILABLE"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeHistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"

	// Absorbed inside the pipeline and only visible in diagnostics.
	ErrCodeGenerationFailed          ErrorCode = "GENERATION_FAILED"
	ErrCodeClassificationParseFailed ErrorCode = "CLASSIFICATION_PARSE_FAILED"
	ErrCodeAdapterFailed             ErrorCode = "ADAPTER_FAILED"
	ErrCodePersistenceFailed         ErrorCode = "PERSISTENCE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the code to the status the API answers with.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatusFor(e.Code)
}

// HTTPStatusFor maps an error code to an HTTP status.
func HTTPStatusFor(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeHistoryUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewAIUnavailableError is returned when no LLM credential or model is configured.
func NewAIUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAIUnavailable,
		Message:   "AI Model not initialized. Check API Key and configuration.",
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a malformed or empty /ask body.
func NewInvalidRequestError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure. The cause is kept for logs
// and never rendered to the client.
func NewInternalError(err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeInternal,
		Message:   "An internal server error occurred.",
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// NewHistoryUnavailableError is returned when no readable interaction sink is configured.
func NewHistoryUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryUnavailable,
		Message:   "Interaction history is not available.",
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError records a per-call LLM failure.
func NewGenerationFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "LLM generation failed",
		Details:   fmt.Sprintf("stage: %s, error: %v", stage, err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewClassificationParseFailedError records a malformed classifier verdict.
func NewClassificationParseFailedError(classifier string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationParseFailed,
		Message:   "Classifier returned an unusable verdict",
		Details:   fmt.Sprintf("classifier: %s, error: %v", classifier, err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewAdapterFailedError records a data-source failure.
func NewAdapterFailedError(adapter string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdapterFailed,
		Message:   "External data source failed",
		Details:   fmt.Sprintf("adapter: %s, error: %v", adapter, err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewPersistenceFailedError records a failed interaction write.
func NewPersistenceFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Interaction write failed",
		Details:   fmt.Sprintf("sink: %s, error: %v", sink, err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr := AsStandardError(err); stdErr != nil {
		return stdErr.Code
	}
	return ""
}

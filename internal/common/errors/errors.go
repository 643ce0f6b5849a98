// Package errors provides standardized error handling for the matching service
// and its BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeRepositoryUnavailable ErrorCode = "REPOSITORY_UNAVAILABLE"
	ErrCodeScoringFailed         ErrorCode = "SCORING_FAILED"
	ErrCodeMatchingTimeout       ErrorCode = "MATCHING_TIMEOUT"
	ErrCodeMatchingUnavailable   ErrorCode = "MATCHING_UNAVAILABLE"
	ErrCodeFeedbackRejected      ErrorCode = "FEEDBACK_REJECTED"
	ErrCodeAlgorithmNotFound     ErrorCode = "ALGORITHM_NOT_FOUND"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// UnavailableMessage is the only failure text callers ever see from a matching run.
const UnavailableMessage = "Unable to complete caregiver matching request"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on error code, so errors.Is(err, ErrMatchingUnavailable) holds for any
// StandardError carrying that code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation            = &StandardError{Code: ErrCodeValidationFailed}
	ErrRepositoryUnavailable = &StandardError{Code: ErrCodeRepositoryUnavailable}
	ErrScoring               = &StandardError{Code: ErrCodeScoringFailed}
	ErrTimeout               = &StandardError{Code: ErrCodeMatchingTimeout}
	ErrMatchingUnavailable   = &StandardError{Code: ErrCodeMatchingUnavailable}
	ErrAlgorithmNotFound     = &StandardError{Code: ErrCodeAlgorithmNotFound}
)

// CodeOf returns the code of the first StandardError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationError creates a non-retryable request validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Matching request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryUnavailableError wraps a failed candidate lookup. Retryable.
func NewRepositoryUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRepositoryUnavailable,
		Message:   "Candidate repository unavailable",
		Details:   fmt.Sprintf("source: %s, error: %v", source, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewScoringError marks a programming error inside the scoring pipeline.
func NewScoringError(caregiverID string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Candidate scoring failed",
		Details:   fmt.Sprintf("caregiverId: %s, %s", caregiverID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable deadline error for the named stage.
func NewTimeoutError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchingTimeout,
		Message:   fmt.Sprintf("Matching stage '%s' timeout", stage),
		Details:   fmt.Sprint(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMatchingUnavailableError is the opaque caller-facing failure. Details are
// deliberately not populated from the cause.
func NewMatchingUnavailableError(requestID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchingUnavailable,
		Message:   UnavailableMessage,
		Retryable: true,
		Metadata:  map[string]interface{}{"requestId": requestID},
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchingTimeoutError is the opaque caller-facing failure for a run whose
// deadline expired. It carries the same message as NewMatchingUnavailableError.
func NewMatchingTimeoutError(requestID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchingTimeout,
		Message:   UnavailableMessage,
		Retryable: true,
		Metadata:  map[string]interface{}{"requestId": requestID},
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedbackRejectedError creates a non-retryable feedback validation error.
func NewFeedbackRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackRejected,
		Message:   "Match feedback rejected",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlgorithmNotFoundError creates a non-retryable unknown preset error.
func NewAlgorithmNotFoundError(algorithmID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlgorithmNotFound,
		Message:   "Matching algorithm not found in registry",
		Details:   fmt.Sprintf("algorithmId: %s", algorithmID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Classification
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:      "MATCHING_REQUEST_INVALID",
	ErrCodeRepositoryUnavailable: "CANDIDATE_LOOKUP_FAILED",
	ErrCodeScoringFailed:         "SCORING_FAILED",
	ErrCodeMatchingTimeout:       "MATCHING_TIMEOUT",
	ErrCodeMatchingUnavailable:   "MATCHING_UNAVAILABLE",
	ErrCodeFeedbackRejected:      "FEEDBACK_REJECTED",
	ErrCodeAlgorithmNotFound:     "MATCHING_REQUEST_INVALID",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRepositoryUnavailable,
		ErrCodeMatchingUnavailable,
		ErrCodeExternalService:
		return 3

	case ErrCodeMatchingTimeout:
		return 2

	default:
		return 0 // validation and programming errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsTransient reports whether err looks like a connection or deadline problem
// worth retrying. context.Canceled is never transient.
func IsTransient(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"eof",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "FEEDBACK") || strings.Contains(codeStr, "ALGORITHM"):
		return "VALIDATION"
	case strings.Contains(codeStr, "REPOSITORY"):
		return "REPOSITORY"
	case strings.Contains(codeStr, "SCORING"):
		return "SCORING"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "EXTERNAL"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}

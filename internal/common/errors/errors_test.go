package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_IsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewRepositoryUnavailableError("postgres", stderrors.New("dial tcp: connection refused")))

	assert.True(t, stderrors.Is(err, ErrRepositoryUnavailable))
	assert.False(t, stderrors.Is(err, ErrMatchingUnavailable))
	assert.Equal(t, ErrCodeRepositoryUnavailable, CodeOf(err))
}

func TestTimeoutError_UnwrapsCause(t *testing.T) {
	err := NewTimeoutError("retrieval", context.DeadlineExceeded)

	assert.True(t, stderrors.Is(err, ErrTimeout))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestMatchingUnavailable_IsOpaque(t *testing.T) {
	err := NewMatchingUnavailableError("req-1")

	assert.Equal(t, UnavailableMessage, err.Message)
	assert.Empty(t, err.Details)
	assert.Nil(t, err.Unwrap())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("boom")))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"connection refused", stderrors.New("dial tcp 127.0.0.1:5432: connection refused"), true},
		{"retryable standard error", NewRepositoryUnavailableError("es", stderrors.New("x")), true},
		{"validation", NewValidationError("bad"), false},
		{"syntax", stderrors.New("pq: syntax error at or near"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewValidationError("maxResults must be >= 0"))
	assert.Equal(t, "MATCHING_REQUEST_INVALID", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Equal(t, "VALIDATION_FAILED", bpmn.ToErrorVariables()["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewMatchingUnavailableError("req-1"))
	assert.Equal(t, "MATCHING_UNAVAILABLE", bpmn.Code)
	assert.Equal(t, 3, bpmn.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "REPOSITORY", GetErrorCategory(ErrCodeRepositoryUnavailable))
	assert.Equal(t, "TIMEOUT", GetErrorCategory(ErrCodeMatchingTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

package recordmatchfeedback

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/retry"
	"caregiver-matcher/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordFeedback(ctx context.Context, feedback models.MatchFeedback) error {
	return m.Called(ctx, feedback).Error(0)
}

// ==========================
// Test Helper Functions
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		ElementId:          "Activity_RecordMatchFeedback",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createValidVariables() map[string]interface{} {
	return map[string]interface{}{
		"matchId":        "match_req_001_cg_001",
		"clientId":       "client_001",
		"caregiverId":    "cg_001",
		"rating":         4,
		"wouldRecommend": true,
		"feedback": map[string]interface{}{
			"punctuality": 5,
		},
	}
}

func createTestHandler(t *testing.T, recorder FeedbackRecorder) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{
			Enabled:       true,
			MaxJobsActive: 5,
			Timeout:       5 * time.Second,
			Retry:         retry.Config{MaxRetries: 1, BaseDelay: time.Millisecond},
		},
		Recorder: recorder,
		Logger:   logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Tests
// ==========================

func TestNewHandler_RequiresRecorder(t *testing.T) {
	_, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	assert.Error(t, err)
}

func TestParseInput(t *testing.T) {
	h := createTestHandler(t, new(MockRecorder))

	input, err := h.parseInput(createMockJob(1, createValidVariables()))
	require.NoError(t, err)
	assert.Equal(t, "match_req_001_cg_001", input.MatchID)
	assert.Equal(t, 4, input.Rating)
	assert.Equal(t, 5, input.Feedback.Punctuality)
	assert.True(t, input.WouldRecommend)
}

func TestParseInput_Rejected(t *testing.T) {
	h := createTestHandler(t, new(MockRecorder))

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{name: "rating too high", mutate: func(v map[string]interface{}) { v["rating"] = 6 }},
		{name: "missing match id", mutate: func(v map[string]interface{}) { delete(v, "matchId") }},
		{name: "rating not a number", mutate: func(v map[string]interface{}) { v["rating"] = "great" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := createValidVariables()
			tt.mutate(vars)

			_, err := h.parseInput(createMockJob(2, vars))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeFeedbackRejected, apperrors.CodeOf(err))
		})
	}
}

func TestExecute(t *testing.T) {
	recorder := new(MockRecorder)
	h := createTestHandler(t, recorder)

	input, err := h.parseInput(createMockJob(3, createValidVariables()))
	require.NoError(t, err)
	recorder.On("RecordFeedback", mock.Anything, *input).Return(nil)

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, out.FeedbackRecorded)
	assert.Equal(t, "match_req_001_cg_001", out.MatchID)
	recorder.AssertExpectations(t)
}

func TestExecute_RecorderFailure(t *testing.T) {
	recorder := new(MockRecorder)
	h := createTestHandler(t, recorder)
	recorder.On("RecordFeedback", mock.Anything, mock.Anything).
		Return(apperrors.NewMatchingUnavailableError("match_req_001_cg_001"))

	_, err := h.Execute(context.Background(), &Input{MatchID: "match_req_001_cg_001"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrMatchingUnavailable))
}

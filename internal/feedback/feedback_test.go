package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"caregiver-matcher/internal/common/aws"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingWriter struct {
	messages []kafka.Message
	deadline bool
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.deadline = ctx.Deadline()
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func createTestFeedback() models.MatchFeedback {
	return models.MatchFeedback{
		FeedbackID:     "fb_001",
		MatchID:        "match_req_cg_001",
		ClientID:       "client_001",
		CaregiverID:    "cg_001",
		Rating:         5,
		WouldRecommend: true,
		SubmittedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ==========================
// SNS
// ==========================

func TestSNSSink_Publish(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		var fb models.MatchFeedback
		if err := json.Unmarshal([]byte(awssdk.ToString(in.Message)), &fb); err != nil {
			return false
		}
		return awssdk.ToString(in.TopicArn) == "arn:aws:sns:us-east-1:123:feedback" &&
			fb.MatchID == "match_req_cg_001" &&
			awssdk.ToString(in.MessageAttributes["rating"].StringValue) == "5" &&
			awssdk.ToString(in.MessageAttributes["eventType"].StringValue) == models.EventMatchFeedback
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("msg-1")}, nil)

	sink := NewSNSSink(aws.NewSNSClientWithAPI(api), "arn:aws:sns:us-east-1:123:feedback", logger.NewTestLogger(t))
	require.NoError(t, sink.Publish(context.Background(), createTestFeedback()))
	api.AssertExpectations(t)
}

func TestSNSSink_PublishError(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	sink := NewSNSSink(aws.NewSNSClientWithAPI(api), "arn:aws:sns:us-east-1:123:feedback", logger.NewTestLogger(t))
	err := sink.Publish(context.Background(), createTestFeedback())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fb_001")
}

// ==========================
// Kafka
// ==========================

func TestKafkaSink_Publish(t *testing.T) {
	w := &recordingWriter{}
	sink := newKafkaSink(w, time.Second, logger.NewTestLogger(t))

	require.NoError(t, sink.Publish(context.Background(), createTestFeedback()))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "cg_001", string(msg.Key))
	assert.True(t, w.deadline)

	var fb models.MatchFeedback
	require.NoError(t, json.Unmarshal(msg.Value, &fb))
	assert.Equal(t, "fb_001", fb.FeedbackID)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, models.EventMatchFeedback, headers["event_type"])
	assert.Equal(t, "5", headers["rating"])

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}

func TestKafkaSink_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	sink := newKafkaSink(w, 0, logger.NewTestLogger(t))

	err := sink.Publish(context.Background(), createTestFeedback())
	require.Error(t, err)
	assert.False(t, w.deadline)
}

// ==========================
// Log
// ==========================

func TestLogSink_Publish(t *testing.T) {
	sink := NewLogSink(logger.NewNoOpLogger())
	assert.NoError(t, sink.Publish(context.Background(), createTestFeedback()))
}

// Package feedback forwards recorded match feedback to downstream consumers.
package feedback

import (
	"context"
	"fmt"
	"strconv"

	"caregiver-matcher/internal/common/aws"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"
)

const snsSubject = "Match feedback"

// SNSSink publishes each feedback record to an SNS topic.
type SNSSink struct {
	client   *aws.SNSClient
	topicARN string
	logger   logger.Logger
}

func NewSNSSink(client *aws.SNSClient, topicARN string, log logger.Logger) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN, logger: log}
}

func (s *SNSSink) Publish(ctx context.Context, fb models.MatchFeedback) error {
	messageID, err := s.client.PublishJSON(ctx, s.topicARN, snsSubject, fb, map[string]string{
		"eventType":      models.EventMatchFeedback,
		"rating":         strconv.Itoa(fb.Rating),
		"wouldRecommend": strconv.FormatBool(fb.WouldRecommend),
	})
	if err != nil {
		return fmt.Errorf("publish feedback %s to sns: %w", fb.FeedbackID, err)
	}

	s.logger.Debug("Feedback published to SNS", map[string]interface{}{
		"feedbackId": fb.FeedbackID,
		"messageId":  messageID,
	})
	return nil
}

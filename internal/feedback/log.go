package feedback

import (
	"context"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"
)

// LogSink only logs feedback. It is the default when no broker is configured.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (l *LogSink) Publish(_ context.Context, fb models.MatchFeedback) error {
	l.logger.Info("Match feedback received", map[string]interface{}{
		"feedbackId":     fb.FeedbackID,
		"matchId":        fb.MatchID,
		"caregiverId":    fb.CaregiverID,
		"rating":         fb.Rating,
		"wouldRecommend": fb.WouldRecommend,
	})
	return nil
}

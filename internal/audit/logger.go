package audit

import (
	"context"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"
)

// LogLogger writes audit events to the structured log. Use it where no audit
// table is provisioned.
type LogLogger struct {
	logger logger.Logger
}

func NewLogLogger(log logger.Logger) *LogLogger {
	return &LogLogger{logger: log.WithFields(map[string]interface{}{"audit": true})}
}

func (l *LogLogger) LogEvent(_ context.Context, event models.AuditEvent) error {
	l.logger.Info("HIPAA audit logged", map[string]interface{}{
		"eventId":          event.EventID,
		"eventType":        event.EventType,
		"userEmail":        event.UserEmail,
		"resourceType":     event.ResourceType,
		"resourceId":       event.ResourceID,
		"details":          event.Details,
		"sensitivityLevel": string(event.Sensitivity),
		"complianceLogged": event.ComplianceLogged,
		"timestamp":        event.Timestamp,
		"retentionDate":    RetentionDate(event.Timestamp),
	})
	return nil
}

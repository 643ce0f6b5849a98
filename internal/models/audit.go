package models

import "time"

// Sensitivity grades how much care an audit record needs when stored or shipped.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "LOW"
	SensitivityMedium Sensitivity = "MEDIUM"
	SensitivityHigh   Sensitivity = "HIGH"
)

// Audit event types emitted by the matching service.
const (
	EventMatchingRequest   = "AI_MATCHING_REQUEST"
	EventMatchingCompleted = "AI_MATCHING_COMPLETED"
	EventMatchingError     = "AI_MATCHING_ERROR"
	EventMatchFeedback     = "MATCH_FEEDBACK"
)

// Audit resource types.
const (
	ResourceMatchingRequest  = "matching_request"
	ResourceMatchingResponse = "matching_response"
	ResourceMatchingError    = "matching_error"
	ResourceMatchFeedback    = "match_feedback"
)

// SystemActor is recorded as the acting user for events the service raises itself.
const SystemActor = "system@snugkisses.com"

// AuditEvent is one compliance log record. Details must never carry client PHI.
type AuditEvent struct {
	EventID          string      `json:"eventId" db:"event_id"`
	EventType        string      `json:"eventType" db:"event_type"`
	UserEmail        string      `json:"userEmail" db:"user_email"`
	ResourceType     string      `json:"resourceType" db:"resource_type"`
	ResourceID       string      `json:"resourceId" db:"resource_id"`
	Details          string      `json:"details" db:"details"`
	Sensitivity      Sensitivity `json:"sensitivityLevel" db:"sensitivity_level"`
	ComplianceLogged bool        `json:"complianceLogged" db:"compliance_logged"`
	Timestamp        time.Time   `json:"timestamp" db:"event_timestamp"`
}

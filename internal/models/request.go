package models

import "time"

const (
	PriorityStandard = "standard"
	PriorityHigh     = "high"
	PriorityUrgent   = "urgent"
)

type MatchingRequest struct {
	RequestID          string             `json:"requestId" validate:"required"`
	ClientRequirements ClientRequirements `json:"clientRequirements"`
	AlgorithmID        string             `json:"algorithmId,omitempty"`
	MaxResults         int                `json:"maxResults" validate:"gte=0"`
	Priority           string             `json:"priority" validate:"omitempty,oneof=standard high urgent"`
	RequestedAt        time.Time          `json:"requestedAt"`
	RequestedBy        string             `json:"requestedBy"`
}

type ResponseMetadata struct {
	SearchRadius        float64  `json:"searchRadius"`
	AvailableCaregivers int      `json:"availableCaregivers"`
	QualifiedCaregivers int      `json:"qualifiedCaregivers"`
	Reasons             []string `json:"reasons"`
}

type MatchingResponse struct {
	RequestID                string           `json:"requestId"`
	Matches                  []MatchResult    `json:"matches"`
	ProcessedAt              time.Time        `json:"processedAt"`
	ProcessingTimeMs         int64            `json:"processingTimeMs"`
	AlgorithmUsed            string           `json:"algorithmUsed"`
	TotalCandidatesEvaluated int              `json:"totalCandidatesEvaluated"`
	Metadata                 ResponseMetadata `json:"metadata"`
}

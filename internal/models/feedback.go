package models

import "time"

// FeedbackScores are 1-5 ratings per aspect of a completed match.
type FeedbackScores struct {
	QualityOfCare       int `json:"qualityOfCare" validate:"omitempty,gte=1,lte=5"`
	Punctuality         int `json:"punctuality" validate:"omitempty,gte=1,lte=5"`
	Communication       int `json:"communication" validate:"omitempty,gte=1,lte=5"`
	Professionalism     int `json:"professionalism" validate:"omitempty,gte=1,lte=5"`
	CulturalSensitivity int `json:"culturalSensitivity" validate:"omitempty,gte=1,lte=5"`
	OverallSatisfaction int `json:"overallSatisfaction" validate:"omitempty,gte=1,lte=5"`
}

type MatchFeedback struct {
	FeedbackID     string         `json:"feedbackId,omitempty"`
	MatchID        string         `json:"matchId" validate:"required"`
	ClientID       string         `json:"clientId" validate:"required"`
	CaregiverID    string         `json:"caregiverId" validate:"required"`
	Rating         int            `json:"rating" validate:"gte=1,lte=5"`
	Feedback       FeedbackScores `json:"feedback"`
	Comments       string         `json:"comments,omitempty"`
	WouldRecommend bool           `json:"wouldRecommend"`
	Improvements   []string       `json:"improvements,omitempty"`
	SubmittedAt    time.Time      `json:"submittedAt"`
	Verified       bool           `json:"verified"`
}


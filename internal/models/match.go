package models

import "time"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusDeclined MatchStatus = "declined"
	MatchStatusExpired  MatchStatus = "expired"
	MatchStatusBooked   MatchStatus = "booked"
)

// Breakdown holds the seven dimension scores, each rounded to an integer in [0,100].
type Breakdown struct {
	LocationScore      int `json:"locationScore"`
	QualificationScore int `json:"qualificationScore"`
	AvailabilityScore  int `json:"availabilityScore"`
	ExperienceScore    int `json:"experienceScore"`
	PerformanceScore   int `json:"performanceScore"`
	PricingScore       int `json:"pricingScore"`
	LanguageScore      int `json:"languageScore"`
}

type Explanation struct {
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

type EstimatedCost struct {
	HourlyRate    float64 `json:"hourlyRate"`
	TotalEstimate float64 `json:"totalEstimate"`
}

// MatchResult is one scored (request, caregiver) pair. OverallScore sits on the
// weighted scale (roughly 0-0.95) while Breakdown stays on 0-100.
type MatchResult struct {
	MatchID       string        `json:"matchId"`
	ClientID      string        `json:"clientId"`
	CaregiverID   string        `json:"caregiverId"`
	OverallScore  float64       `json:"overallScore"`
	Confidence    float64       `json:"confidence"`
	MatchedAt     time.Time     `json:"matchedAt"`
	ExpiresAt     time.Time     `json:"expiresAt"`
	Breakdown     Breakdown     `json:"breakdown"`
	Explanation   Explanation   `json:"explanation"`
	EstimatedCost EstimatedCost `json:"estimatedCost"`
	Status        MatchStatus   `json:"status"`
}

// EffectiveStatus reports the status as of now: a pending match past its
// expiry reads as expired.
func (m MatchResult) EffectiveStatus(now time.Time) MatchStatus {
	if m.Status == MatchStatusPending && !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt) {
		return MatchStatusExpired
	}
	return m.Status
}

// Expire moves a lapsed pending match to expired. It reports whether the status changed.
func (m *MatchResult) Expire(now time.Time) bool {
	if m.EffectiveStatus(now) == MatchStatusExpired && m.Status != MatchStatusExpired {
		m.Status = MatchStatusExpired
		return true
	}
	return false
}

// ExpireLapsed applies Expire to every match and returns how many changed.
func ExpireLapsed(matches []MatchResult, now time.Time) int {
	n := 0
	for i := range matches {
		if matches[i].Expire(now) {
			n++
		}
	}
	return n
}

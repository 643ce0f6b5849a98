// internal/workers/matching/record-match-feedback/models.go
package recordmatchfeedback

import "caregiver-matcher/internal/models"

type Input = models.MatchFeedback

type Output struct {
	FeedbackRecorded bool   `json:"feedbackRecorded"`
	MatchID          string `json:"matchId"`
}

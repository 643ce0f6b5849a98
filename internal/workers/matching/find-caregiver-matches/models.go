// internal/workers/matching/find-caregiver-matches/models.go
package findcaregivermatches

import "caregiver-matcher/internal/models"

// Input is the job's variables: a matching request. A missing requestId is
// filled from the job key.
type Input = models.MatchingRequest

// Output is merged into the process instance variables.
type Output struct {
	MatchingResponse *models.MatchingResponse `json:"matchingResponse"`
	MatchCount       int                      `json:"matchCount"`
	TopMatchID       string                   `json:"topMatchId,omitempty"`
	TopCaregiverID   string                   `json:"topCaregiverId,omitempty"`
}

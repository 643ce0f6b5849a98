package matching

import (
	"sort"

	"caregiver-matcher/internal/models"
)

// Thresholds are inclusive: a result exactly at either value is kept.
const (
	MinOverallScore   = 0.3
	MinRankConfidence = 0.5
)

// FilterAndRank drops weak or low-confidence results, orders the rest by overall
// score descending (ties keep input order) and keeps at most maxResults.
// A maxResults of zero or less means the caller set no limit, so every
// qualifying result is returned. The input slice is not modified.
func FilterAndRank(results []models.MatchResult, maxResults int) []models.MatchResult {
	kept := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if r.OverallScore < MinOverallScore || r.Confidence < MinRankConfidence {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].OverallScore > kept[j].OverallScore
	})

	if maxResults > 0 && len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	return kept
}

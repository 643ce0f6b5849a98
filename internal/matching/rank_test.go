package matching

import (
	"testing"

	"caregiver-matcher/internal/models"

	"github.com/stretchr/testify/assert"
)

func result(id string, overall, confidence float64) models.MatchResult {
	return models.MatchResult{CaregiverID: id, OverallScore: overall, Confidence: confidence}
}

func ids(results []models.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.CaregiverID
	}
	return out
}

func TestFilterAndRank_Thresholds(t *testing.T) {
	in := []models.MatchResult{
		result("at-both-boundaries", 0.3, 0.5),
		result("low-overall", 0.29, 0.9),
		result("low-confidence", 0.9, 0.49),
		result("good", 0.8, 0.8),
	}

	out := FilterAndRank(in, 10)
	assert.Equal(t, []string{"good", "at-both-boundaries"}, ids(out))
}

func TestFilterAndRank_TopN(t *testing.T) {
	in := []models.MatchResult{
		result("a", 0.5, 0.9),
		result("b", 0.9, 0.9),
		result("c", 0.7, 0.9),
		result("d", 0.4, 0.9),
		result("e", 0.8, 0.9),
	}

	out := FilterAndRank(in, 2)
	assert.Equal(t, []string{"b", "e"}, ids(out))
	assert.Equal(t, "a", in[0].CaregiverID, "input must not be reordered")
}

func TestFilterAndRank_TiesKeepInputOrder(t *testing.T) {
	in := []models.MatchResult{
		result("first", 0.6, 0.9),
		result("higher", 0.7, 0.9),
		result("second", 0.6, 0.9),
		result("third", 0.6, 0.9),
	}

	assert.Equal(t, []string{"higher", "first", "second", "third"}, ids(FilterAndRank(in, 10)))
}

func TestFilterAndRank_NonPositiveMaxResultsMeansNoLimit(t *testing.T) {
	in := []models.MatchResult{
		result("a", 0.9, 0.9),
		result("weak", 0.1, 0.9),
		result("b", 0.8, 0.9),
	}

	assert.Equal(t, []string{"a", "b"}, ids(FilterAndRank(in, 0)))
	assert.Equal(t, []string{"a", "b"}, ids(FilterAndRank(in, -1)))
}

func TestFilterAndRank_Empty(t *testing.T) {
	out := FilterAndRank(nil, 5)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

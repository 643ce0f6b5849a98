package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallAndConfidence_EndToEndPair(t *testing.T) {
	d := ScoreDimensions(createTestRequirements(), createTestCaregiver("caregiver_001"))

	assert.Equal(t, 100.0, d.Location)
	assert.Equal(t, 60.0, d.Qualification)
	assert.Equal(t, 100.0, d.Availability)
	assert.Equal(t, 100.0, d.Experience)
	assert.Equal(t, 100.0, d.Performance)
	assert.Equal(t, 100.0, d.Pricing)
	assert.Equal(t, 100.0, d.Language)

	assert.Equal(t, 0.85, OverallScore(d, DefaultAlgorithm().Weights))
	assert.Equal(t, 0.86, Confidence(d))
}

func TestOverallScore_UsesOnlyScoredWeights(t *testing.T) {
	all := DimensionScores{100, 100, 100, 100, 100, 100, 100}
	w := DefaultAlgorithm().Weights

	assert.Equal(t, 0.95, OverallScore(all, w))

	w.ClientPreferences, w.SpecializedSkills, w.CulturalFit = 5, 5, 5
	assert.Equal(t, 0.95, OverallScore(all, w))
}

func TestConfidence_Bounds(t *testing.T) {
	assert.Equal(t, 1.0, Confidence(DimensionScores{}))
	assert.Equal(t, 1.0, Confidence(DimensionScores{70, 70, 70, 70, 70, 70, 70}))

	spread := DimensionScores{0, 100, 0, 100, 0, 100, 0}
	c := Confidence(spread)
	assert.GreaterOrEqual(t, c, MinConfidence)
	assert.InDelta(t, 0.51, c, 0.001)
}

func TestBreakdown_RoundsToIntegers(t *testing.T) {
	d := DimensionScores{Location: 80.4, Qualification: 60.5, Performance: 97.225}
	b := d.Breakdown()

	assert.Equal(t, 80, b.LocationScore)
	assert.Equal(t, 61, b.QualificationScore)
	assert.Equal(t, 97, b.PerformanceScore)
	assert.Equal(t, 0, b.LanguageScore)
}

func TestDimensionScores_Finite(t *testing.T) {
	assert.True(t, DimensionScores{}.Finite())
	assert.False(t, DimensionScores{Location: math.NaN()}.Finite())
	assert.False(t, DimensionScores{Pricing: math.Inf(1)}.Finite())
}

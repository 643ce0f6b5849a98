package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAlgorithm(t *testing.T) {
	a := DefaultAlgorithm()

	assert.Equal(t, DefaultAlgorithmID, a.AlgorithmID)
	assert.Equal(t, "Snug & Kisses Matching Algorithm v1.0", a.Name)
	assert.InDelta(t, 0.95, a.Weights.ScoredSum(), 1e-9)
	assert.NoError(t, a.Validate())
}

func TestDefaultAlgorithm_ReturnsFreshValues(t *testing.T) {
	a := DefaultAlgorithm()
	a.Weights.LocationProximity = 0.9
	a.Filters.RequiredCertifications = append(a.Filters.RequiredCertifications, "RN")

	b := DefaultAlgorithm()
	assert.Equal(t, 0.20, b.Weights.LocationProximity)
	assert.Empty(t, b.Filters.RequiredCertifications)
}

func TestAlgorithmConfig_Validate(t *testing.T) {
	missingID := DefaultAlgorithm()
	missingID.AlgorithmID = ""
	assert.Error(t, missingID.Validate())

	negative := DefaultAlgorithm()
	negative.Weights.PricingCompatibility = -0.1
	assert.ErrorContains(t, negative.Validate(), "pricingCompatibility")

	nan := DefaultAlgorithm()
	nan.Weights.CulturalFit = math.NaN()
	assert.Error(t, nan.Validate())

	zero := AlgorithmConfig{AlgorithmID: "zero"}
	assert.Error(t, zero.Validate())
}

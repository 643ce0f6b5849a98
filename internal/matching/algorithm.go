package matching

import (
	"fmt"
	"math"
)

const (
	DefaultAlgorithmID      = "default_v1"
	DefaultAlgorithmName    = "Snug & Kisses Matching Algorithm v1.0"
	DefaultAlgorithmVersion = "1.0.0"
)

// Weights are the per-dimension coefficients. ClientPreferences, SpecializedSkills
// and CulturalFit are carried for configuration compatibility but are not part of
// the overall score.
type Weights struct {
	LocationProximity     float64 `json:"locationProximity"`
	QualificationMatch    float64 `json:"qualificationMatch"`
	AvailabilityAlignment float64 `json:"availabilityAlignment"`
	ExperienceLevel       float64 `json:"experienceLevel"`
	ClientPreferences     float64 `json:"clientPreferences"`
	CaregiverPerformance  float64 `json:"caregiverPerformance"`
	PricingCompatibility  float64 `json:"pricingCompatibility"`
	SpecializedSkills     float64 `json:"specializedSkills"`
	CulturalFit           float64 `json:"culturalFit"`
	LanguageMatch         float64 `json:"languageMatch"`
}

// ScoredSum is the total of the seven weights the aggregate formula consumes.
func (w Weights) ScoredSum() float64 {
	return w.LocationProximity + w.QualificationMatch + w.AvailabilityAlignment +
		w.ExperienceLevel + w.CaregiverPerformance + w.PricingCompatibility + w.LanguageMatch
}

// Filters are declared hard filters. They are not applied in the scoring path.
type Filters struct {
	MaxDistance            float64  `json:"maxDistance"`
	MinRating              float64  `json:"minRating"`
	MaxResponseTime        int      `json:"maxResponseTime"`
	RequiredCertifications []string `json:"requiredCertifications"`
	ExcludeUnavailable     bool     `json:"excludeUnavailable"`
}

// BiasCorrection coefficients are declared but unused.
type BiasCorrection struct {
	GenderBias     float64 `json:"genderBias"`
	AgeBias        float64 `json:"ageBias"`
	ExperienceBias float64 `json:"experienceBias"`
	LocationBias   float64 `json:"locationBias"`
}

// AlgorithmConfig is passed by value into every scoring call; nothing holds a
// shared mutable instance.
type AlgorithmConfig struct {
	AlgorithmID    string         `json:"algorithmId"`
	Name           string         `json:"name"`
	Version        string         `json:"version"`
	Weights        Weights        `json:"weights"`
	Filters        Filters        `json:"filters"`
	BiasCorrection BiasCorrection `json:"biasCorrection"`
}

// DefaultAlgorithm returns a fresh copy of the production defaults.
func DefaultAlgorithm() AlgorithmConfig {
	return AlgorithmConfig{
		AlgorithmID: DefaultAlgorithmID,
		Name:        DefaultAlgorithmName,
		Version:     DefaultAlgorithmVersion,
		Weights: Weights{
			LocationProximity:     0.20,
			QualificationMatch:    0.25,
			AvailabilityAlignment: 0.20,
			ExperienceLevel:       0.10,
			ClientPreferences:     0.10,
			CaregiverPerformance:  0.10,
			PricingCompatibility:  0.05,
			SpecializedSkills:     0.15,
			CulturalFit:           0.05,
			LanguageMatch:         0.05,
		},
		Filters: Filters{
			MaxDistance:            50,
			MinRating:              4.0,
			MaxResponseTime:        30,
			RequiredCertifications: []string{},
			ExcludeUnavailable:     true,
		},
		BiasCorrection: BiasCorrection{
			GenderBias:     0.02,
			AgeBias:        0.01,
			ExperienceBias: 0.03,
			LocationBias:   0.02,
		},
	}
}

// Validate rejects configs that would make scores meaningless.
func (a AlgorithmConfig) Validate() error {
	if a.AlgorithmID == "" {
		return fmt.Errorf("algorithmId is required")
	}
	w := a.Weights
	for name, v := range map[string]float64{
		"locationProximity":     w.LocationProximity,
		"qualificationMatch":    w.QualificationMatch,
		"availabilityAlignment": w.AvailabilityAlignment,
		"experienceLevel":       w.ExperienceLevel,
		"clientPreferences":     w.ClientPreferences,
		"caregiverPerformance":  w.CaregiverPerformance,
		"pricingCompatibility":  w.PricingCompatibility,
		"specializedSkills":     w.SpecializedSkills,
		"culturalFit":           w.CulturalFit,
		"languageMatch":         w.LanguageMatch,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be a non-negative number, got %v", name, v)
		}
	}
	if w.ScoredSum() == 0 {
		return fmt.Errorf("at least one scored weight must be positive")
	}
	return nil
}

package matching

import (
	"math"

	"caregiver-matcher/internal/models"
)

const (
	MinConfidence = 0.3
	MaxConfidence = 1.0
)

// DimensionScores are the unrounded 0-100 scores of one candidate.
type DimensionScores struct {
	Location      float64
	Qualification float64
	Availability  float64
	Experience    float64
	Performance   float64
	Pricing       float64
	Language      float64
}

// ScoreDimensions runs the seven scorers for one (requirements, caregiver) pair.
func ScoreDimensions(req models.ClientRequirements, cg models.CaregiverProfile) DimensionScores {
	return DimensionScores{
		Location:      LocationScore(req.Location, cg.Location),
		Qualification: QualificationScore(req.CareNeeds, cg.Expertise),
		Availability:  AvailabilityScore(req.Schedule, cg.Availability),
		Experience:    ExperienceScore(req.Preferences.ExperienceLevel, cg.PersonalInfo.YearsOfExperience),
		Performance:   PerformanceScore(cg.Performance),
		Pricing:       PricingScore(req.Budget, cg.Pricing),
		Language:      LanguageScore(req.Preferences.LanguagePreferences, cg.PersonalInfo.Languages),
	}
}

func (d DimensionScores) values() []float64 {
	return []float64{d.Location, d.Qualification, d.Availability, d.Experience, d.Performance, d.Pricing, d.Language}
}

// Finite reports whether every score is a real number.
func (d DimensionScores) Finite() bool {
	for _, v := range d.values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Breakdown rounds each score to the nearest integer.
func (d DimensionScores) Breakdown() models.Breakdown {
	return models.Breakdown{
		LocationScore:      int(math.Round(d.Location)),
		QualificationScore: int(math.Round(d.Qualification)),
		AvailabilityScore:  int(math.Round(d.Availability)),
		ExperienceScore:    int(math.Round(d.Experience)),
		PerformanceScore:   int(math.Round(d.Performance)),
		PricingScore:       int(math.Round(d.Pricing)),
		LanguageScore:      int(math.Round(d.Language)),
	}
}

// OverallScore is Σ(score·weight)/100 over the seven scored weights, rounded to
// two decimals. With weights summing to 0.95 the result tops out at 0.95.
func OverallScore(d DimensionScores, w Weights) float64 {
	sum := d.Location*w.LocationProximity +
		d.Qualification*w.QualificationMatch +
		d.Availability*w.AvailabilityAlignment +
		d.Experience*w.ExperienceLevel +
		d.Performance*w.CaregiverPerformance +
		d.Pricing*w.PricingCompatibility +
		d.Language*w.LanguageMatch
	return round2(sum / 100)
}

// Confidence is (100 - population stddev of the seven scores)/100, clamped to
// [0.3, 1.0] and rounded to two decimals.
func Confidence(d DimensionScores) float64 {
	vals := d.values()

	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals))

	c := (100 - math.Sqrt(variance)) / 100
	return round2(math.Max(MinConfidence, math.Min(MaxConfidence, c)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

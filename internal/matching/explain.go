package matching

import "caregiver-matcher/internal/models"

type explanationList int

const (
	strengths explanationList = iota
	concerns
	recommendations
)

type explanationRule struct {
	applies func(models.Breakdown) bool
	list    explanationList
	text    string
}

// Rules are independent; each one that applies appends its text.
var explanationRules = []explanationRule{
	{
		applies: func(b models.Breakdown) bool { return b.QualificationScore >= 80 },
		list:    strengths,
		text:    "Excellent qualification match for your care needs",
	},
	{
		applies: func(b models.Breakdown) bool { return b.QualificationScore < 60 },
		list:    concerns,
		text:    "Limited experience in some of your required care areas",
	},
	{
		applies: func(b models.Breakdown) bool { return b.LocationScore >= 90 },
		list:    strengths,
		text:    "Very convenient location with short travel time",
	},
	{
		applies: func(b models.Breakdown) bool { return b.LocationScore < 50 },
		list:    concerns,
		text:    "May require longer travel time to reach you",
	},
	{
		applies: func(b models.Breakdown) bool { return b.PerformanceScore >= 85 },
		list:    strengths,
		text:    "Outstanding performance history and client reviews",
	},
	{
		applies: func(b models.Breakdown) bool { return b.AvailabilityScore < 70 },
		list:    recommendations,
		text:    "Consider flexible scheduling to improve availability match",
	},
}

// Explain derives strengths, concerns and recommendations from a breakdown.
// All three lists are non-nil.
func Explain(b models.Breakdown) models.Explanation {
	exp := models.Explanation{
		Strengths:       []string{},
		Concerns:        []string{},
		Recommendations: []string{},
	}

	for _, rule := range explanationRules {
		if !rule.applies(b) {
			continue
		}
		switch rule.list {
		case strengths:
			exp.Strengths = append(exp.Strengths, rule.text)
		case concerns:
			exp.Concerns = append(exp.Concerns, rule.text)
		case recommendations:
			exp.Recommendations = append(exp.Recommendations, rule.text)
		}
	}

	return exp
}

package matching

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"caregiver-matcher/internal/models"
)

// NeutralScore is what a dimension reports when there is nothing to compare.
const NeutralScore = 50.0

var weekdays = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName maps 0-6 (Sunday = 0) to the key used in a caregiver's weekly schedule.
func WeekdayName(day int) (string, bool) {
	if day < 0 || day >= len(weekdays) {
		return "", false
	}
	return weekdays[day], true
}

type experienceRange struct {
	min, max float64
}

var experienceLevels = map[string]experienceRange{
	"entry":        {0, 2},
	"intermediate": {2, 5},
	"experienced":  {5, 10},
	"expert":       {10, math.Inf(1)},
}

// LocationScore is 100 at the client's door, falling linearly to 50 at the edge of
// the tighter of the two radii, and 0 outside it.
func LocationScore(client models.ClientLocation, caregiver models.CaregiverLocation) float64 {
	maxDist := math.Min(client.Radius, caregiver.ServiceRadius)
	if maxDist <= 0 {
		return 0
	}

	dist := Distance(client.Coordinates, caregiver.BaseLocation.Coordinates)
	if dist > maxDist {
		return 0
	}
	return clamp(math.Max(0, 100-(dist/maxDist)*50))
}

// QualificationScore awards 30 per primary need in the caregiver's primary
// specialties (20 if only in secondary skills) and 40 per matched specialized need.
func QualificationScore(needs models.CareNeeds, expertise models.Expertise) float64 {
	total := len(needs.Primary) + len(needs.Specialized)
	if total == 0 {
		return NeutralScore
	}

	points := 0.0
	for _, need := range needs.Primary {
		switch {
		case slices.Contains(expertise.PrimarySpecialties, need):
			points += 30
		case slices.Contains(expertise.SecondarySkills, need):
			points += 20
		}
	}
	for _, need := range needs.Specialized {
		if slices.Contains(expertise.SpecializedCare, need) {
			points += 40
		}
	}

	return clamp(math.Min(100, points/float64(total)*2))
}

// AvailabilityScore is the share of requested slots that overlap an available
// window on the same weekday.
func AvailabilityScore(schedule models.Schedule, availability models.Availability) float64 {
	if len(schedule.TimeSlots) == 0 {
		return NeutralScore
	}

	matched := 0
	for _, slot := range schedule.TimeSlots {
		day, ok := WeekdayName(slot.DayOfWeek)
		if !ok {
			continue
		}
		cgDay, ok := availability.Schedule[day]
		if !ok || !cgDay.Available {
			continue
		}
		for _, cgSlot := range cgDay.TimeSlots {
			if slotsOverlap(slot, cgSlot) {
				matched++
				break
			}
		}
	}

	return clamp(float64(matched) / float64(len(schedule.TimeSlots)) * 100)
}

// ExperienceScore compares years of experience with the requested level's bucket.
// Bucket bounds are inclusive at both ends.
func ExperienceScore(level string, years float64) float64 {
	r, ok := experienceLevels[strings.ToLower(level)]
	if !ok {
		return NeutralScore
	}

	switch {
	case years >= r.min && years <= r.max:
		return 100
	case years > r.max:
		return clamp(math.Max(70, 100-5*(years-r.max)))
	default:
		return clamp(math.Max(0, 70-20*(r.min-years)))
	}
}

// PerformanceScore weights rating 30%, completion 25%, reliability 25% and
// satisfaction 20%.
func PerformanceScore(p models.PerformanceMetrics) float64 {
	return clamp(0.30*p.OverallRating/5*100 +
		0.25*p.CompletionRate +
		0.25*p.ReliabilityScore +
		0.20*p.ClientSatisfactionScore/5*100)
}

// PricingScore is 100 inside the client's hourly range, gently discounted below it
// and steeply discounted above it.
func PricingScore(budget models.Budget, pricing models.Pricing) float64 {
	rng := budget.HourlyRateRange
	if rng == nil {
		return NeutralScore
	}

	rate := pricing.BaseHourlyRate
	switch {
	case rate >= rng.Min && rate <= rng.Max:
		return 100
	case rate < rng.Min:
		return clamp(math.Max(60, 100-(rng.Min-rate)/rng.Min*40))
	case rng.Max <= 0:
		return 0
	default:
		return clamp(math.Max(0, 100-(rate-rng.Max)/rng.Max*60))
	}
}

// LanguageScore is the share of preferred languages the caregiver speaks,
// compared case-insensitively. No preference scores 100.
func LanguageScore(preferred, spoken []string) float64 {
	if len(preferred) == 0 {
		return 100
	}

	matched := 0
	for _, want := range preferred {
		for _, have := range spoken {
			if strings.EqualFold(want, have) {
				matched++
				break
			}
		}
	}
	return clamp(float64(matched) / float64(len(preferred)) * 100)
}

func slotsOverlap(a, b models.TimeSlot) bool {
	aStart, ok1 := minutesOfDay(a.StartTime)
	aEnd, ok2 := minutesOfDay(a.EndTime)
	bStart, ok3 := minutesOfDay(b.StartTime)
	bEnd, ok4 := minutesOfDay(b.EndTime)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// minutesOfDay parses "HH:MM". "24:00" is accepted as the end of the day.
func minutesOfDay(hhmm string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !found {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 24 {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	if hours == 24 && mins != 0 {
		return 0, false
	}
	return hours*60 + mins, true
}

// clamp bounds v to [0,100]. NaN passes through so the engine can reject it.
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

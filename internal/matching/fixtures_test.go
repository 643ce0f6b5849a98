package matching

import (
	"testing"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var portland = models.Coordinates{Latitude: 45.5152, Longitude: -122.6784}

// createTestRequirements and createTestCaregiver form a pair that scores 100 on
// every dimension except qualification, which is 60 (one primary need matched).
func createTestRequirements() models.ClientRequirements {
	return models.ClientRequirements{
		ClientID: "client_001",
		Location: models.ClientLocation{
			Address:     "100 Main Street, Portland, OR",
			Coordinates: portland,
			Radius:      25,
		},
		CareNeeds: models.CareNeeds{
			Primary: []string{"postpartum-care"},
		},
		Schedule: models.Schedule{
			TimeSlots: []models.TimeSlot{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
			},
		},
		Preferences: models.ClientPreferences{
			LanguagePreferences: []string{"English"},
			ExperienceLevel:     "experienced",
		},
		Budget: models.Budget{
			HourlyRateRange: &models.RateRange{Min: 60, Max: 80},
		},
		Urgency: "flexible",
	}
}

func createTestCaregiver(id string) models.CaregiverProfile {
	return models.CaregiverProfile{
		CaregiverID: id,
		PersonalInfo: models.CaregiverPersonalInfo{
			FirstName:         "Test",
			LastName:          "Caregiver",
			YearsOfExperience: 8,
			Languages:         []string{"english", "Spanish"},
		},
		Location: models.CaregiverLocation{
			BaseLocation:  models.BaseLocation{Coordinates: portland},
			ServiceRadius: 25,
		},
		Expertise: models.Expertise{
			PrimarySpecialties: []string{"postpartum-care", "newborn-care"},
			SecondarySkills:    []string{"baby-care"},
			SpecializedCare:    []string{"c-section-recovery"},
		},
		Availability: models.Availability{
			Schedule: models.WeeklySchedule{
				"monday": {
					Available: true,
					TimeSlots: []models.TimeSlot{{DayOfWeek: 1, StartTime: "08:00", EndTime: "17:00"}},
				},
			},
		},
		Pricing: models.Pricing{BaseHourlyRate: 75},
		Performance: models.PerformanceMetrics{
			OverallRating:           5,
			CompletionRate:          100,
			ReliabilityScore:        100,
			ClientSatisfactionScore: 5,
		},
		Status: "available",
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

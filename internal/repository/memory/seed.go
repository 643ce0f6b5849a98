package memory

import "caregiver-matcher/internal/models"

func weekdays(start, end string, flexibility int, days ...int) models.WeeklySchedule {
	sched := models.WeeklySchedule{}
	for day, name := range []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		sched[name] = models.DayAvailability{Available: false, TimeSlots: []models.TimeSlot{}}
		for _, d := range days {
			if d == day {
				sched[name] = models.DayAvailability{
					Available: true,
					TimeSlots: []models.TimeSlot{{DayOfWeek: day, StartTime: start, EndTime: end, Flexibility: flexibility}},
				}
			}
		}
	}
	return sched
}

// SeedCaregivers returns the two Portland demo profiles.
func SeedCaregivers() []models.CaregiverProfile {
	maria := weekdays("08:00", "20:00", 60, 1, 2, 3, 4, 5)
	for day, name := range map[int]string{0: "sunday", 6: "saturday"} {
		maria[name] = models.DayAvailability{
			Available: true,
			TimeSlots: []models.TimeSlot{{DayOfWeek: day, StartTime: "10:00", EndTime: "18:00", Flexibility: 30}},
		}
	}

	return []models.CaregiverProfile{
		{
			CaregiverID: "caregiver_001",
			PersonalInfo: models.CaregiverPersonalInfo{
				FirstName:         "Sarah",
				LastName:          "Johnson",
				Bio:               "Registered nurse with 8 years of postpartum care experience.",
				YearsOfExperience: 8,
				Gender:            "female",
				Languages:         []string{"English", "Spanish"},
			},
			Location: models.CaregiverLocation{
				BaseLocation: models.BaseLocation{
					Address:     "123 Oak Street, Portland, OR",
					Coordinates: models.Coordinates{Latitude: 45.5152, Longitude: -122.6784},
				},
				ServiceRadius:        25,
				TransportationMethod: "own-vehicle",
			},
			Qualifications: models.Qualifications{
				Certifications: []models.Certification{{
					Name:               "Registered Nurse",
					Issuer:             "Oregon State Board of Nursing",
					ExpirationDate:     "2026-05-15",
					VerificationStatus: "verified",
				}},
			},
			Expertise: models.Expertise{
				PrimarySpecialties:  []string{"postpartum-care", "newborn-care", "lactation-support"},
				SecondarySkills:     []string{"baby-care", "maternal-support"},
				SpecializedCare:     []string{"c-section-recovery"},
				MedicalCapabilities: []string{"Medication Administration"},
			},
			Availability: models.Availability{
				Schedule:        weekdays("09:00", "17:00", 30, 1, 2, 3, 4, 5),
				MaxHoursPerWeek: 40,
			},
			Pricing: models.Pricing{
				BaseHourlyRate:   75,
				SpecializedRates: map[string]float64{"c-section-recovery": 85},
				MinimumBooking:   4,
			},
			Performance: models.PerformanceMetrics{
				OverallRating:           4.9,
				TotalReviews:            127,
				CompletionRate:          98.5,
				ResponseTime:            15,
				ReliabilityScore:        96,
				ClientSatisfactionScore: 4.8,
			},
			Status: "available",
		},
		{
			CaregiverID: "caregiver_002",
			PersonalInfo: models.CaregiverPersonalInfo{
				FirstName:         "Maria",
				LastName:          "Rodriguez",
				Bio:               "Certified postpartum doula specializing in lactation support and newborn care.",
				YearsOfExperience: 5,
				Gender:            "female",
				Languages:         []string{"English", "Spanish"},
			},
			Location: models.CaregiverLocation{
				BaseLocation: models.BaseLocation{
					Address:     "456 Pine Avenue, Portland, OR",
					Coordinates: models.Coordinates{Latitude: 45.5272, Longitude: -122.6851},
				},
				ServiceRadius:        20,
				TransportationMethod: "own-vehicle",
			},
			Qualifications: models.Qualifications{
				Certifications: []models.Certification{{
					Name:               "Certified Postpartum Doula",
					Issuer:             "DONA International",
					VerificationStatus: "verified",
				}},
			},
			Expertise: models.Expertise{
				PrimarySpecialties: []string{"lactation-support", "postpartum-care", "newborn-care"},
				SecondarySkills:    []string{"baby-care", "sleep-training"},
				SpecializedCare:    []string{"breastfeeding-support"},
			},
			Availability: models.Availability{
				Schedule:        maria,
				MaxHoursPerWeek: 50,
			},
			Pricing: models.Pricing{
				BaseHourlyRate:   65,
				SpecializedRates: map[string]float64{"lactation-support": 75},
				MinimumBooking:   3,
			},
			Performance: models.PerformanceMetrics{
				OverallRating:           4.7,
				TotalReviews:            89,
				CompletionRate:          97.2,
				ResponseTime:            12,
				ReliabilityScore:        94,
				ClientSatisfactionScore: 4.6,
			},
			Status: "available",
		},
	}
}

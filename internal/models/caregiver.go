package models

import "strings"

type CaregiverPersonalInfo struct {
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Bio               string   `json:"bio,omitempty"`
	YearsOfExperience float64  `json:"yearsOfExperience"`
	Gender            string   `json:"gender,omitempty"`
	Languages         []string `json:"languages"`
}

type BaseLocation struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

type CaregiverLocation struct {
	BaseLocation         BaseLocation `json:"baseLocation"`
	ServiceRadius        float64      `json:"serviceRadius"` // miles
	TransportationMethod string       `json:"transportationMethod,omitempty"`
}

type Certification struct {
	Name               string `json:"name"`
	Issuer             string `json:"issuer"`
	ExpirationDate     string `json:"expirationDate,omitempty"`
	VerificationStatus string `json:"verificationStatus,omitempty"`
}

type Qualifications struct {
	Certifications []Certification `json:"certifications"`
}

type Expertise struct {
	PrimarySpecialties  []string `json:"primarySpecialties"`
	SecondarySkills     []string `json:"secondarySkills"`
	SpecializedCare     []string `json:"specializedCare"`
	MedicalCapabilities []string `json:"medicalCapabilities,omitempty"`
}

type DayAvailability struct {
	Available bool       `json:"available"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// WeeklySchedule is keyed by lower-case weekday name ("sunday" ... "saturday").
type WeeklySchedule map[string]DayAvailability

type Availability struct {
	Schedule        WeeklySchedule `json:"schedule"`
	MaxHoursPerWeek int            `json:"maxHoursPerWeek,omitempty"`
}

type Pricing struct {
	BaseHourlyRate   float64            `json:"baseHourlyRate"`
	SpecializedRates map[string]float64 `json:"specializedRates,omitempty"`
	MinimumBooking   int                `json:"minimumBooking,omitempty"`
}

// PerformanceMetrics: ratings are on a 0-5 scale, rates and reliability on 0-100.
type PerformanceMetrics struct {
	OverallRating           float64 `json:"overallRating"`
	TotalReviews            int     `json:"totalReviews"`
	CompletionRate          float64 `json:"completionRate"`
	ResponseTime            int     `json:"responseTime"` // minutes
	ReliabilityScore        float64 `json:"reliabilityScore"`
	ClientSatisfactionScore float64 `json:"clientSatisfactionScore"`
}

// CaregiverProfile is a candidate as supplied by a candidate repository.
type CaregiverProfile struct {
	CaregiverID    string                `json:"caregiverId"`
	PersonalInfo   CaregiverPersonalInfo `json:"personalInfo"`
	Location       CaregiverLocation     `json:"location"`
	Qualifications Qualifications        `json:"qualifications"`
	Expertise      Expertise             `json:"expertise"`
	Availability   Availability          `json:"availability"`
	Pricing        Pricing               `json:"pricing"`
	Performance    PerformanceMetrics    `json:"performance"`
	Status         string                `json:"status"`
}

// FullName joins first and last name.
func (c CaregiverProfile) FullName() string {
	return strings.TrimSpace(c.PersonalInfo.FirstName + " " + c.PersonalInfo.LastName)
}

package models

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type ClientLocation struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Radius      float64     `json:"radius" validate:"gte=0"` // miles
}

type CareNeeds struct {
	Primary     []string `json:"primary"`
	Secondary   []string `json:"secondary,omitempty"`
	Specialized []string `json:"specialized,omitempty"`
}

// TimeSlot is a weekly window. DayOfWeek runs 0-6 with Sunday = 0, times are HH:MM.
type TimeSlot struct {
	DayOfWeek   int    `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	Flexibility int    `json:"flexibility,omitempty"` // minutes
}

type Schedule struct {
	StartDate   string     `json:"startDate,omitempty"`
	EndDate     string     `json:"endDate,omitempty"`
	Frequency   string     `json:"frequency,omitempty"`
	TimeSlots   []TimeSlot `json:"timeSlots" validate:"dive"`
	Flexibility string     `json:"flexibility,omitempty"`
}

type ClientPreferences struct {
	GenderPreference    string   `json:"genderPreference,omitempty"`
	LanguagePreferences []string `json:"languagePreferences"`
	ExperienceLevel     string   `json:"experienceLevel"`
}

type RateRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

type Budget struct {
	HourlyRateRange *RateRange `json:"hourlyRateRange,omitempty"`
	TotalBudget     float64    `json:"totalBudget,omitempty"`
}

// ClientRequirements describes what one client is looking for. It is never mutated
// once a request has been accepted.
type ClientRequirements struct {
	ClientID            string            `json:"clientId" validate:"required"`
	Location            ClientLocation    `json:"location"`
	CareNeeds           CareNeeds         `json:"careNeeds"`
	Schedule            Schedule          `json:"schedule"`
	Preferences         ClientPreferences `json:"preferences"`
	Budget              Budget            `json:"budget"`
	Urgency             string            `json:"urgency,omitempty" validate:"omitempty,oneof=immediate within-24h within-week flexible"`
	SpecialInstructions string            `json:"specialInstructions,omitempty"`
}

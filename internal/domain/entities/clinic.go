package entities

// Clinic represents a healthcare facility normalized from an external
// point-of-interest record. Name and Location are always present; records
// lacking either are never materialized.
type Clinic struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Address           string       `json:"address"`
	City              string       `json:"city,omitempty"`
	State             string       `json:"state,omitempty"`
	PostalCode        string       `json:"postal_code,omitempty"`
	Location          Coordinate   `json:"location"`
	PhoneNumber       string       `json:"phone_number,omitempty"`
	Email             string       `json:"email,omitempty"`
	Website           string       `json:"website,omitempty"`
	FacilityType      string       `json:"facility_type"`
	Specializations   []string     `json:"specializations"`
	Services          []string     `json:"services,omitempty"`
	Rating            float64      `json:"rating"`
	RatingEstimated   bool         `json:"rating_estimated"`
	ReviewCount       int          `json:"review_count"`
	OpeningHours      WeekSchedule `json:"opening_hours"`
	HoursEstimated    bool         `json:"hours_estimated"`
	Languages         []string     `json:"languages"`
	Facilities        []string     `json:"facilities,omitempty"`
	EmergencyServices bool         `json:"emergency_services"`

	// DistanceKm is derived per search relative to the querying user and is
	// never part of the cached base record.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	ExternalSourceID string `json:"external_source_id"`
}

// HasSpecialization reports whether the clinic carries the specialization id.
func (c *Clinic) HasSpecialization(id string) bool {
	for _, s := range c.Specializations {
		if s == id {
			return true
		}
	}
	return false
}

// DaySchedule represents opening hours for a single weekday
type DaySchedule struct {
	Open        string `json:"open,omitempty"`
	Close       string `json:"close,omitempty"`
	Open24Hours bool   `json:"open_24_hours,omitempty"`
	Closed      bool   `json:"closed,omitempty"`
}

// WeekSchedule maps lowercase weekday names to their schedules
type WeekSchedule map[string]DaySchedule

// Weekdays lists the schedule keys in calendar order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

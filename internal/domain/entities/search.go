package entities

// SortKey selects the result ordering of a clinic search
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByName     SortKey = "name"
)

// Search defaults. Radii are meters everywhere inside the engine; kilometers
// appear only in the presentation field Clinic.DistanceKm.
const (
	DefaultRadiusMeters = 5000
	MaxRadiusMeters     = 50000
	DefaultSearchLimit  = 10
)

// SearchOptions is a pure value object describing one clinic search.
type SearchOptions struct {
	// Location overrides automatic resolution when set.
	Location *UserLocation `json:"location,omitempty"`

	Specialization string  `json:"specialization,omitempty"`
	RadiusMeters   int     `json:"radius_meters,omitempty"`
	MinRating      float64 `json:"min_rating,omitempty"`
	EmergencyOnly  bool    `json:"emergency_only,omitempty"`
	Language       string  `json:"language,omitempty"`
	SortBy         SortKey `json:"sort_by,omitempty"`
	Limit          int     `json:"limit,omitempty"`
}

// WithDefaults returns a copy with unset fields replaced by defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.RadiusMeters <= 0 {
		o.RadiusMeters = DefaultRadiusMeters
	}
	if o.RadiusMeters > MaxRadiusMeters {
		o.RadiusMeters = MaxRadiusMeters
	}
	if o.SortBy == "" {
		o.SortBy = SortByDistance
	}
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	return o
}

package providers

import (
	"context"

	"github.com/medassist/clinic-discovery/pkg/geo"
)

// FacilityQuery is a declarative request for healthcare facilities: a bounding
// box plus a facility-type tag predicate. It deliberately assumes no query
// language; each source adapter translates it to its own transport.
type FacilityQuery struct {
	Box           geo.Box
	FacilityTypes []string
	EmergencyOnly bool
}

// RawFacility is one element as returned by the external point-of-interest
// source. Every field beyond Type and ID is optional and possibly malformed;
// normalization decides what is usable.
type RawFacility struct {
	Type      string
	ID        int64
	Latitude  *float64
	Longitude *float64
	Tags      map[string]string
}

// FacilitySource defines the interface to the external facility data source.
type FacilitySource interface {
	FetchFacilities(ctx context.Context, query FacilityQuery) ([]RawFacility, error)
}

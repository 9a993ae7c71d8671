package services

import (
	"github.com/medassist/clinic-discovery/internal/domain/entities"
	"github.com/medassist/clinic-discovery/internal/domain/providers"
	"github.com/medassist/clinic-discovery/pkg/geo"
)

// generalFacilityTypes is the default facility-type set requested from the
// external source.
var generalFacilityTypes = []string{"hospital", "clinic", "doctors", "pharmacy"}

// emergencyFacilityTypes narrows the request to emergency-capable facilities.
var emergencyFacilityTypes = []string{"hospital"}

// BuildFacilityQuery scopes a facility request to a bounding box around the
// center with a facility-type predicate. The reserved "emergency"
// specialization narrows the predicate to emergency-capable facility types.
func BuildFacilityQuery(center entities.Coordinate, radiusMeters int, specialization string) (providers.FacilityQuery, error) {
	box, err := geo.BoundingBox(center.Latitude, center.Longitude, float64(radiusMeters))
	if err != nil {
		return providers.FacilityQuery{}, err
	}

	if specialization == entities.SpecializationEmergency {
		return providers.FacilityQuery{
			Box:           box,
			FacilityTypes: emergencyFacilityTypes,
			EmergencyOnly: true,
		}, nil
	}

	return providers.FacilityQuery{
		Box:           box,
		FacilityTypes: generalFacilityTypes,
	}, nil
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
)

func TestBuildFacilityQuery_GeneralSearch(t *testing.T) {
	query, err := BuildFacilityQuery(chennaiCenter, 5000, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"hospital", "clinic", "doctors", "pharmacy"}, query.FacilityTypes)
	assert.False(t, query.EmergencyOnly)

	// The box brackets the center.
	assert.Greater(t, query.Box.North, chennaiCenter.Latitude)
	assert.Less(t, query.Box.South, chennaiCenter.Latitude)
	assert.Greater(t, query.Box.East, chennaiCenter.Longitude)
	assert.Less(t, query.Box.West, chennaiCenter.Longitude)
	assert.True(t, query.Box.Contains(chennaiCenter.Latitude, chennaiCenter.Longitude))
}

func TestBuildFacilityQuery_SpecializationDoesNotNarrowTypes(t *testing.T) {
	query, err := BuildFacilityQuery(chennaiCenter, 5000, "cardiology")
	require.NoError(t, err)

	// Specialization filtering happens after normalization; the source query
	// stays broad.
	assert.Equal(t, generalFacilityTypes, query.FacilityTypes)
	assert.False(t, query.EmergencyOnly)
}

func TestBuildFacilityQuery_EmergencyNarrows(t *testing.T) {
	query, err := BuildFacilityQuery(chennaiCenter, 5000, entities.SpecializationEmergency)
	require.NoError(t, err)

	assert.Equal(t, []string{"hospital"}, query.FacilityTypes)
	assert.True(t, query.EmergencyOnly)
}

func TestBuildFacilityQuery_RejectsPolarCenters(t *testing.T) {
	_, err := BuildFacilityQuery(entities.Coordinate{Latitude: 89.5, Longitude: 0}, 5000, "")
	require.Error(t, err)
}

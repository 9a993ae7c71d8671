package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusKm = 6371.0
	earthRadiusM  = 6371000.0

	// Latitudes beyond this are rejected: the longitude correction of the
	// flat-earth bounding box diverges as cos(lat) approaches zero.
	maxSupportedLatitude = 89.0
)

// Box is an axis-aligned latitude/longitude rectangle used to scope
// external queries before precise distance filtering.
type Box struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the point lies strictly inside the box.
func (b Box) Contains(lat, lon float64) bool {
	return lat > b.South && lat < b.North && lon > b.West && lon < b.East
}

// HaversineKm returns the great-circle distance between two points in
// kilometers at full precision. Use RoundKm for presentation.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places for display.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// BoundingBox approximates a circle of radiusMeters around the center with a
// lat/lon rectangle. The box is intentionally over-inclusive; callers filter
// by haversine distance afterwards.
func BoundingBox(lat, lon float64, radiusMeters float64) (Box, error) {
	if radiusMeters <= 0 {
		return Box{}, fmt.Errorf("radius must be positive, got %f", radiusMeters)
	}
	if math.Abs(lat) > maxSupportedLatitude {
		return Box{}, fmt.Errorf("latitude %f is outside the supported range [-%g, %g]", lat, maxSupportedLatitude, maxSupportedLatitude)
	}

	latDelta := (radiusMeters / earthRadiusM) * (180 / math.Pi)

	// Clamp the denominator so extreme input cannot blow up the division.
	cosLat := math.Cos(toRadians(lat))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDelta := latDelta / cosLat

	return Box{
		North: lat + latDelta,
		South: lat - latDelta,
		East:  lon + lonDelta,
		West:  lon - lonDelta,
	}, nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

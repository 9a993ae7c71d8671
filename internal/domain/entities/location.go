package entities

import (
	"fmt"
	"time"
)

// Coordinate represents geographical coordinates in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate lies within valid ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Longitude)
	}
	return nil
}

// FixQuality is a coarse, informational classification of a GPS fix. It never
// gates correctness.
type FixQuality string

const (
	FixQualityHigh   FixQuality = "high"
	FixQualityGood   FixQuality = "good"
	FixQualityMedium FixQuality = "medium"
	FixQualityLow    FixQuality = "low"
)

// QualityForAccuracy classifies an accuracy radius in meters.
func QualityForAccuracy(accuracyMeters float64) FixQuality {
	switch {
	case accuracyMeters <= 5:
		return FixQualityHigh
	case accuracyMeters <= 20:
		return FixQualityGood
	case accuracyMeters <= 100:
		return FixQualityMedium
	default:
		return FixQualityLow
	}
}

// UserLocation represents a single resolved GPS fix. It lives only in process
// memory and is discarded once stale.
type UserLocation struct {
	Coordinate
	AccuracyMeters float64    `json:"accuracy_meters"`
	CapturedAt     time.Time  `json:"captured_at"`
	Altitude       *float64   `json:"altitude,omitempty"`
	Heading        *float64   `json:"heading,omitempty"`
	SpeedMPS       *float64   `json:"speed_mps,omitempty"`
	Source         string     `json:"source,omitempty"`
	Quality        FixQuality `json:"quality"`
}

// Age returns how old the fix is relative to now.
func (l *UserLocation) Age(now time.Time) time.Duration {
	return now.Sub(l.CapturedAt)
}

// IsFresh reports whether the fix is younger than the given window.
func (l *UserLocation) IsFresh(now time.Time, window time.Duration) bool {
	return l.Age(now) < window
}

package providers

import (
	"fmt"
	"time"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
)

// PositionOptions configures a position request against the underlying
// geolocation platform.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	// MaximumAge is the oldest cached platform fix the source may return.
	// Zero means no cached fix is acceptable.
	MaximumAge time.Duration
}

// Position is a raw fix as reported by the geolocation platform.
type Position struct {
	Coordinate     entities.Coordinate
	AccuracyMeters float64
	Altitude       *float64
	Heading        *float64
	SpeedMPS       *float64
	Timestamp      time.Time
}

// PositionErrorCode is one of the four documented geolocation failure codes.
type PositionErrorCode string

const (
	PositionPermissionDenied PositionErrorCode = "permission_denied"
	PositionUnavailable      PositionErrorCode = "position_unavailable"
	PositionTimeout          PositionErrorCode = "timeout"
	PositionUnsupported      PositionErrorCode = "unsupported"
)

// PositionError reports a geolocation platform failure.
type PositionError struct {
	Code    PositionErrorCode
	Message string
}

// Error implements the error interface
func (e *PositionError) Error() string {
	return fmt.Sprintf("geolocation %s: %s", e.Code, e.Message)
}

// GeolocationSource defines the low-level interface to the platform
// geolocation service.
type GeolocationSource interface {
	// CurrentPosition resolves a single fix bounded by opts.Timeout.
	CurrentPosition(opts PositionOptions) (*Position, error)

	// WatchPosition registers a continuous fix stream and returns a watch id.
	// Updates and errors are delivered on the callbacks in source order.
	WatchPosition(onUpdate func(*Position), onError func(error), opts PositionOptions) (string, error)

	// ClearWatch stops the watch with the given id.
	ClearWatch(id string)
}

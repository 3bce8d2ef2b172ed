// Package geocode resolves place names to coordinates and throttles the
// calls made to the geocoding service.
package geocode

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned when a lookup exceeds its deadline.
	ErrTimeout = errors.New("geocoder timed out")
	// ErrUnavailable is returned when the service refuses or cannot serve
	// the request right now.
	ErrUnavailable = errors.New("geocoder unavailable")
)

// Location is a resolved coordinate.
type Location struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Geocoder looks up a place name. ok is false when the service has no match.
// Errors wrapping ErrTimeout or ErrUnavailable are transient for that place;
// any other error means the service or its response is unusable.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (loc Location, ok bool, err error)
}
